package portal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/pkg/filestorage"
	"gopkg.in/yaml.v3"
)

// Session is the login state of one portal user. It is set by Client.Login,
// cleared by Client.Logout and optionally persisted between CLI runs.
type Session struct {
	Username string          `yaml:"username"`
	Token    string          `yaml:"token"`
	Role     models.RoleType `yaml:"role"`
}

// Active reports whether the session holds a token.
func (s *Session) Active() bool { return s != nil && s.Token != "" }

func (s *Session) IsAdmin() bool { return s.Active() && s.Role == models.RoleAdmin }

func (s *Session) IsStudent() bool { return s.Active() && s.Role == models.RoleStudent }

// Clear forgets the token and role.
func (s *Session) Clear() { *s = Session{} }

// scope returns the API prefix of the session role.
func (s *Session) scope() (string, error) {
	switch {
	case s.IsAdmin():
		return "/api/admin", nil
	case s.IsStudent():
		return "/api/etudiant", nil
	}
	return "", ErrNotLoggedIn
}

// LoadSession reads a session file. A missing file yields an empty session.
func LoadSession(path string) (*Session, error) {
	store, err := filestorage.NewLocalStorage(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	f, err := store.Open(filepath.Base(path))
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	s := &Session{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return s, nil
}

// Save writes the session to path, replacing any previous file. A cleared
// session removes the file.
func (s *Session) Save(path string) error {
	store, err := filestorage.NewLocalStorage(filepath.Dir(path))
	if err != nil {
		return err
	}
	if !s.Active() {
		return store.DeleteFile(filepath.Base(path))
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if _, err := store.SaveFile(filepath.Base(path), data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
