package portal

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ensab/scolarite/internal/app/auth"
	"github.com/ensab/scolarite/internal/app/models"
	"github.com/ensab/scolarite/internal/app/models/dto"
	"github.com/ensab/scolarite/internal/pkg/listing"
	"github.com/ensab/scolarite/internal/pkg/validation"
)

// collectionPaths maps a record kind to its REST collection.
var collectionPaths = map[models.EntityKind]string{
	models.KindRequest:    "/demandes",
	models.KindPayment:    "/paiements",
	models.KindEnrollment: "/inscriptions",
	models.KindComplaint:  "/reclamations",
}

func (c *Client) adminOnly() error {
	if !c.session.Active() {
		return ErrNotLoggedIn
	}
	if !c.session.IsAdmin() {
		return ErrWrongRole
	}
	return nil
}

func (c *Client) studentOnly() error {
	if !c.session.Active() {
		return ErrNotLoggedIn
	}
	if !c.session.IsStudent() {
		return ErrWrongRole
	}
	return nil
}

func fetchScoped[T any](ctx context.Context, c *Client, collection string, criteria listing.Criteria) ([]T, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	var out []T
	if err := c.call(ctx, http.MethodGet, scope+collection, criteria.Query(), nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}

// Students lists every student (administration).
func (c *Client) Students(ctx context.Context, criteria listing.Criteria) ([]*models.Student, error) {
	if err := c.adminOnly(); err != nil {
		return nil, err
	}
	return fetchScoped[*models.Student](ctx, c, "/etudiants", criteria)
}

// Requests lists the document requests visible to the session.
func (c *Client) Requests(ctx context.Context, criteria listing.Criteria) ([]*models.DocumentRequest, error) {
	return fetchScoped[*models.DocumentRequest](ctx, c, collectionPaths[models.KindRequest], criteria)
}

// Payments lists the payments visible to the session.
func (c *Client) Payments(ctx context.Context, criteria listing.Criteria) ([]*models.Payment, error) {
	return fetchScoped[*models.Payment](ctx, c, collectionPaths[models.KindPayment], criteria)
}

// Enrollments lists the enrollments visible to the session.
func (c *Client) Enrollments(ctx context.Context, criteria listing.Criteria) ([]*models.Enrollment, error) {
	return fetchScoped[*models.Enrollment](ctx, c, collectionPaths[models.KindEnrollment], criteria)
}

// Complaints lists the complaints visible to the session.
func (c *Client) Complaints(ctx context.Context, criteria listing.Criteria) ([]*models.Complaint, error) {
	return fetchScoped[*models.Complaint](ctx, c, collectionPaths[models.KindComplaint], criteria)
}

// Grades lists the marks of studentID for an administrator, or the caller's
// own marks for a student (studentID is then ignored).
func (c *Client) Grades(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	path := scope + "/notes"
	if c.session.IsAdmin() {
		if studentID <= 0 {
			return nil, invalid("etudiantId", validation.MsgStudent)
		}
		path = idPath(scope+"/etudiants", studentID, "/notes")
	}
	var out []*models.Grade
	if err := c.call(ctx, http.MethodGet, path, nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile returns the student record of the caller.
func (c *Client) Profile(ctx context.Context) (*models.Student, error) {
	if err := c.studentOnly(); err != nil {
		return nil, err
	}
	var s models.Student
	if err := c.call(ctx, http.MethodGet, "/api/etudiant/profile", nil, nil, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

// Statistics returns the administration dashboard.
func (c *Client) Statistics(ctx context.Context) (*models.DashboardStats, error) {
	if err := c.adminOnly(); err != nil {
		return nil, err
	}
	var stats models.DashboardStats
	if err := c.call(ctx, http.MethodGet, "/api/admin/statistiques", nil, nil, &stats, true); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveStudent creates a student when id is 0 and updates it otherwise.
func (c *Client) SaveStudent(ctx context.Context, id int64, f StudentForm) (*models.Student, error) {
	if err := c.adminOnly(); err != nil {
		return nil, err
	}
	body, err := f.validate()
	if err != nil {
		return nil, err
	}
	method, path := http.MethodPost, "/api/admin/etudiants"
	if id > 0 {
		method, path = http.MethodPut, idPath(path, id, "")
	}
	var s models.Student
	if err := c.call(ctx, method, path, nil, body, &s, true); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteStudent removes a student and its login account.
func (c *Client) DeleteStudent(ctx context.Context, id int64) error {
	if err := c.adminOnly(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, idPath("/api/admin/etudiants", id, ""), nil, nil, nil, true)
}

// CreateRequest files a document request.
func (c *Client) CreateRequest(ctx context.Context, f RequestForm) (*models.DocumentRequest, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	if !f.Type.Valid() {
		return nil, invalid("typeDocument", validation.MsgRequiredFields)
	}
	var body any = dto.StudentRequestRequest{Type: f.Type}
	if c.session.IsAdmin() {
		ref, err := f.Student.validate()
		if err != nil {
			return nil, err
		}
		body = dto.CreateRequestRequest{StudentRef: ref, Type: f.Type}
	}
	var out models.DocumentRequest
	if err := c.call(ctx, http.MethodPost, scope+collectionPaths[models.KindRequest], nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePayment records a payment.
func (c *Client) CreatePayment(ctx context.Context, f PaymentForm) (*models.Payment, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	var body any
	if c.session.IsAdmin() {
		ref, err := f.Student.validate()
		if err != nil {
			return nil, err
		}
		fields, err := f.fields()
		if err != nil {
			return nil, err
		}
		body = dto.CreatePaymentRequest{StudentRef: ref, PaymentFields: fields}
	} else {
		fields, err := f.fields()
		if err != nil {
			return nil, err
		}
		body = fields
	}
	var out models.Payment
	if err := c.call(ctx, http.MethodPost, scope+collectionPaths[models.KindPayment], nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateEnrollment registers an enrollment.
func (c *Client) CreateEnrollment(ctx context.Context, f EnrollmentForm) (*models.Enrollment, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	if c.session.IsAdmin() && f.StudentID <= 0 {
		return nil, invalid("etudiantId", validation.MsgStudent)
	}
	fields, err := f.fields()
	if err != nil {
		return nil, err
	}
	var body any = fields
	if c.session.IsAdmin() {
		body = dto.CreateEnrollmentRequest{StudentID: f.StudentID, EnrollmentFields: fields}
	}
	var out models.Enrollment
	if err := c.call(ctx, http.MethodPost, scope+collectionPaths[models.KindEnrollment], nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComplaint files a complaint.
func (c *Client) CreateComplaint(ctx context.Context, f ComplaintForm) (*models.Complaint, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	var body any
	if c.session.IsAdmin() {
		ref, err := f.Student.validate()
		if err != nil {
			return nil, err
		}
		fields, err := f.fields()
		if err != nil {
			return nil, err
		}
		body = dto.CreateComplaintRequest{StudentRef: ref, ComplaintFields: fields}
	} else {
		fields, err := f.fields()
		if err != nil {
			return nil, err
		}
		body = fields
	}
	var out models.Complaint
	if err := c.call(ctx, http.MethodPost, scope+collectionPaths[models.KindComplaint], nil, body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveGrade adds a mark when id is 0 and updates it otherwise.
func (c *Client) SaveGrade(ctx context.Context, id int64, f GradeForm) (*models.Grade, error) {
	if err := c.adminOnly(); err != nil {
		return nil, err
	}
	body, err := f.validate()
	if err != nil {
		return nil, err
	}
	method, path := http.MethodPost, "/api/admin/notes"
	if id > 0 {
		method, path = http.MethodPut, idPath(path, id, "")
	}
	var g models.Grade
	if err := c.call(ctx, method, path, nil, body, &g, true); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteGrade removes a mark.
func (c *Client) DeleteGrade(ctx context.Context, id int64) error {
	if err := c.adminOnly(); err != nil {
		return err
	}
	return c.call(ctx, http.MethodDelete, idPath("/api/admin/notes", id, ""), nil, nil, nil, true)
}

// Transition applies a body-less status action to a record. Complaints are
// treated with Treat, which carries the response text.
func (c *Client) Transition(ctx context.Context, kind models.EntityKind, id int64, action models.Action) error {
	if err := c.adminOnly(); err != nil {
		return err
	}
	collection, ok := collectionPaths[kind]
	if !ok {
		return fmt.Errorf("portal: unknown record kind %q", kind)
	}
	if kind == models.KindComplaint {
		return fmt.Errorf("portal: complaints are answered with Treat")
	}
	if _, ok := models.FindTransition(kind, action); !ok {
		return fmt.Errorf("portal: action %q does not apply to %s", action, kind)
	}
	return c.call(ctx, http.MethodPut, idPath("/api/admin"+collection, id, "/"+string(action)), nil, nil, nil, true)
}

// Treat answers a complaint and marks it processed.
func (c *Client) Treat(ctx context.Context, id int64, response string) (*models.Complaint, error) {
	if err := c.adminOnly(); err != nil {
		return nil, err
	}
	text, err := validateResponse(response)
	if err != nil {
		return nil, err
	}
	var out models.Complaint
	path := idPath("/api/admin"+collectionPaths[models.KindComplaint], id, "/treat")
	if err := c.call(ctx, http.MethodPut, path, nil, dto.TreatComplaintRequest{Response: text}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPDF downloads the document of req. Students are refused locally,
// without a request, until req is approved.
func (c *Client) RequestPDF(ctx context.Context, req *models.DocumentRequest) (*File, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	if !req.DownloadableBy(c.session.Role) {
		return nil, invalid("status", auth.MsgDocumentLocked)
	}
	return c.download(ctx, idPath(scope+collectionPaths[models.KindRequest], req.ID, "/pdf"))
}

// Receipt downloads the receipt of a payment.
func (c *Client) Receipt(ctx context.Context, paymentID int64) (*File, error) {
	scope, err := c.session.scope()
	if err != nil {
		return nil, err
	}
	return c.download(ctx, idPath(scope+collectionPaths[models.KindPayment], paymentID, "/recu"))
}

// IdentityQR downloads the caller's identity QR code as PNG.
func (c *Client) IdentityQR(ctx context.Context) (*File, error) {
	if err := c.studentOnly(); err != nil {
		return nil, err
	}
	return c.download(ctx, "/api/etudiant/profile/qr")
}
