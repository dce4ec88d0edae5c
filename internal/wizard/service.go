package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/common/logger"
	"visitor-registration/internal/common/metrics"
	"visitor-registration/internal/common/observability"
	"visitor-registration/internal/models"
	"visitor-registration/internal/roster"
	"visitor-registration/internal/schema"
	"visitor-registration/internal/session"
	issuepass "visitor-registration/internal/steps/issue-pass"
	registervisit "visitor-registration/internal/steps/register-visit"
	verifyemployee "visitor-registration/internal/steps/verify-employee"
	"visitor-registration/internal/taxonomy"
)

// Verifier is the identity gate.
type Verifier interface {
	Execute(ctx context.Context, scope *session.Scope, input *verifyemployee.Input) (*verifyemployee.Output, error)
}

// Registrar is the submission gate.
type Registrar interface {
	Execute(ctx context.Context, scope *session.Scope) (*registervisit.Output, error)
}

// PassIssuer turns a registered visit into a pass.
type PassIssuer interface {
	Execute(ctx context.Context, scope *session.Scope, input *issuepass.Input) (*issuepass.Output, error)
}

type Dependencies struct {
	Store         session.Store
	Verifier      Verifier
	Registrar     Registrar
	Issuer        PassIssuer
	Observability *observability.Observability
	Logger        logger.Logger
}

// View is the current step of a session together with its draft.
type View struct {
	Step     models.Step              `json:"step"`
	Draft    *models.WizardState      `json:"draft"`
	Identity *models.EmployeeIdentity `json:"identity,omitempty"`
}

// FormView is what the form step renders.
type FormView struct {
	Step  models.Step         `json:"step"`
	Spec  *schema.FieldSpec   `json:"spec"`
	Draft *models.WizardState `json:"draft"`
}

// PassView is the terminal step.
type PassView struct {
	Step          models.Step           `json:"step"`
	Pass          *models.Pass          `json:"pass"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

// Service applies user actions to the session draft. Every method loads the
// draft, checks the step guard and writes the draft back before returning.
type Service struct {
	store     session.Store
	verifier  Verifier
	registrar Registrar
	issuer    PassIssuer
	obs       *observability.Observability
	logger    logger.Logger
	now       func() time.Time
}

func NewService(deps Dependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		store:     deps.Store,
		verifier:  deps.Verifier,
		registrar: deps.Registrar,
		issuer:    deps.Issuer,
		obs:       deps.Observability,
		logger:    log,
		now:       time.Now,
	}
}

// Scope returns the session handle for sessionID.
func (s *Service) Scope(sessionID string) *session.Scope {
	return session.NewScope(s.store, sessionID)
}

// ==========================
// Navigation
// ==========================

// State returns the current step, corrected by the guard if the session lost
// a prerequisite.
func (s *Service) State(ctx context.Context, scope *session.Scope) (*View, error) {
	c, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	step := Guard(c.draft.Step, c.progress())
	if step != c.draft.Step {
		if err := s.moveTo(ctx, scope, c.draft, step); err != nil {
			return nil, err
		}
	}
	return c.view(), nil
}

// Restart discards the draft and any pass and returns to the identity step.
func (s *Service) Restart(ctx context.Context, scope *session.Scope) (*View, error) {
	if err := scope.Reset(ctx); err != nil {
		return nil, err
	}
	draft := models.NewWizardState()
	draft.UpdatedAt = s.now().UTC()
	if err := scope.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}
	s.obs.RecordRestart(ctx)
	s.logger.Info("Wizard restarted", map[string]interface{}{"sessionId": scope.ID})

	identity, err := scope.Identity(ctx)
	if err != nil {
		return nil, err
	}
	return &View{Step: draft.Step, Draft: draft, Identity: identity}, nil
}

// Verify runs the identity gate. A rejected or failed call leaves the session
// on the identity step with nothing written.
func (s *Service) Verify(ctx context.Context, scope *session.Scope, input *verifyemployee.Input) (*View, error) {
	release, err := s.acquire(ctx, scope, session.GateVerify)
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.verifier.Execute(ctx, scope, input); err != nil {
		return nil, err
	}

	c, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := s.moveTo(ctx, scope, c.draft, models.StepCategorySelect); err != nil {
		return nil, err
	}
	return c.view(), nil
}

// Categories lists the categories in display order.
func (s *Service) Categories(ctx context.Context, scope *session.Scope) ([]taxonomy.Category, error) {
	if _, err := s.enter(ctx, scope, models.StepCategorySelect); err != nil {
		return nil, err
	}
	return taxonomy.Categories(), nil
}

// ChooseCategory selects a category. Changing it clears the visitor type and
// every form field.
func (s *Service) ChooseCategory(ctx context.Context, scope *session.Scope, name string) (*View, error) {
	c, err := s.enter(ctx, scope, models.StepCategorySelect)
	if err != nil {
		return nil, err
	}
	category, err := taxonomy.ParseCategory(name)
	if err != nil {
		return nil, errors.NewUnknownCategoryError(strings.TrimSpace(name))
	}

	if category != c.draft.Category {
		c.draft.Category = category
		c.draft.VisitorType = ""
		c.draft.ResetForm()
	}
	if err := s.moveTo(ctx, scope, c.draft, models.StepVisitorTypeSelect); err != nil {
		return nil, err
	}
	return c.view(), nil
}

// VisitorTypes lists the visitor types of the chosen category.
func (s *Service) VisitorTypes(ctx context.Context, scope *session.Scope) ([]taxonomy.VisitorType, error) {
	c, err := s.enter(ctx, scope, models.StepVisitorTypeSelect)
	if err != nil {
		return nil, err
	}
	return taxonomy.VisitorTypes(c.draft.Category), nil
}

// ChooseVisitorType selects a visitor type of the chosen category. Changing
// it clears every form field.
func (s *Service) ChooseVisitorType(ctx context.Context, scope *session.Scope, name string) (*View, error) {
	c, err := s.enter(ctx, scope, models.StepVisitorTypeSelect)
	if err != nil {
		return nil, err
	}
	visitorType, err := taxonomy.ParseVisitorType(c.draft.Category, name)
	if err != nil {
		return nil, errors.NewUnknownCombinationError(string(c.draft.Category), strings.TrimSpace(name))
	}

	if visitorType != c.draft.VisitorType {
		c.draft.VisitorType = visitorType
		c.draft.ResetForm()
	}
	if err := s.moveTo(ctx, scope, c.draft, models.StepFormFill); err != nil {
		return nil, err
	}
	return c.view(), nil
}

// ==========================
// Form
// ==========================

// Form returns the field spec of the selected pair with the draft.
func (s *Service) Form(ctx context.Context, scope *session.Scope) (*FormView, error) {
	c, err := s.enter(ctx, scope, models.StepFormFill)
	if err != nil {
		return nil, err
	}
	return c.formView()
}

// UpdateFields sets form-level fields. Keys the selected form does not
// collect are rejected as a whole.
func (s *Service) UpdateFields(ctx context.Context, scope *session.Scope, fields map[string]string) (*FormView, error) {
	return s.edit(ctx, scope, func(spec *schema.FieldSpec, draft *models.WizardState) error {
		for key := range fields {
			if !spec.HasField(key) {
				return errors.NewValidationFailedError(fmt.Sprintf("field %s is not part of this form", key))
			}
		}
		for key, value := range fields {
			setField(draft, key, value)
		}
		return nil
	})
}

// AddVisitor appends an entry. Name-only lists ignore blank names; structured
// rows may be added empty; the single delivery partner record is replaced.
func (s *Service) AddVisitor(ctx context.Context, scope *session.Scope, record models.VisitorRecord) (*FormView, error) {
	return s.edit(ctx, scope, func(spec *schema.FieldSpec, draft *models.WizardState) error {
		record, err := sanitize(spec, record)
		if err != nil {
			return err
		}
		switch spec.EntryMode {
		case schema.EntrySingleRecord:
			draft.DeliveryPartner = record
		case schema.EntryIncrementalNames:
			list := roster.New(spec.EntryLabel, draft.Visitors)
			list.Add(record.Name)
			draft.Visitors = list.Entries()
		default:
			list := roster.New(spec.EntryLabel, draft.Visitors)
			list.AddRecord(record)
			draft.Visitors = list.Entries()
		}
		return nil
	})
}

// UpdateVisitor replaces the entry at index in place.
func (s *Service) UpdateVisitor(ctx context.Context, scope *session.Scope, index int, record models.VisitorRecord) (*FormView, error) {
	return s.edit(ctx, scope, func(spec *schema.FieldSpec, draft *models.WizardState) error {
		record, err := sanitize(spec, record)
		if err != nil {
			return err
		}
		if spec.EntryMode == schema.EntrySingleRecord {
			if index != 0 {
				return errors.NewVisitorIndexOutOfRangeError(index, 1)
			}
			draft.DeliveryPartner = record
			return nil
		}
		list := roster.New(spec.EntryLabel, draft.Visitors)
		if err := list.Update(index, record); err != nil {
			return err
		}
		draft.Visitors = list.Entries()
		return nil
	})
}

// RemoveVisitor drops the entry at index. The rest keep their order.
func (s *Service) RemoveVisitor(ctx context.Context, scope *session.Scope, index int) (*FormView, error) {
	return s.edit(ctx, scope, func(spec *schema.FieldSpec, draft *models.WizardState) error {
		if spec.EntryMode == schema.EntrySingleRecord {
			if index != 0 {
				return errors.NewVisitorIndexOutOfRangeError(index, 1)
			}
			draft.DeliveryPartner = models.VisitorRecord{}
			return nil
		}
		list := roster.New(spec.EntryLabel, draft.Visitors)
		if err := list.Remove(index); err != nil {
			return err
		}
		draft.Visitors = list.Entries()
		return nil
	})
}

// AttachDocument sets the single document reference of the draft. An empty
// reference detaches it.
func (s *Service) AttachDocument(ctx context.Context, scope *session.Scope, ref string) (*FormView, error) {
	return s.edit(ctx, scope, func(spec *schema.FieldSpec, draft *models.WizardState) error {
		ref = strings.TrimSpace(ref)
		if ref != "" && !spec.Upload.Accepts(ref) {
			return errors.NewInvalidDocumentTypeError(ref, spec.Upload.Extensions)
		}
		draft.UploadedDocumentRef = ref
		return nil
	})
}

// ==========================
// Submission
// ==========================

// Submit runs the registration gate and issues the pass. Local validation
// failures return before any outbound call and leave the form editable.
func (s *Service) Submit(ctx context.Context, scope *session.Scope) (*PassView, error) {
	if _, err := s.enter(ctx, scope, models.StepFormFill); err != nil {
		return nil, err
	}

	release, err := s.acquire(ctx, scope, session.GateSubmit)
	if err != nil {
		return nil, err
	}
	defer release()

	registered, err := s.registrar.Execute(ctx, scope)
	if err != nil {
		return nil, err
	}

	identity, err := scope.Identity(ctx)
	if err != nil {
		return nil, err
	}
	issued, err := s.issuer.Execute(ctx, scope, &issuepass.Input{
		Context:  registered.Pass,
		Identity: identity,
	})
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}
	if err := s.moveTo(ctx, scope, c.draft, models.StepPassIssued); err != nil {
		return nil, err
	}

	return &PassView{
		Step:          models.StepPassIssued,
		Pass:          issued.Pass,
		Notifications: issued.Notifications,
	}, nil
}

// Pass returns the issued pass.
func (s *Service) Pass(ctx context.Context, scope *session.Scope) (*PassView, error) {
	c, err := s.enter(ctx, scope, models.StepPassIssued)
	if err != nil {
		return nil, err
	}
	return &PassView{Step: models.StepPassIssued, Pass: c.pass}, nil
}

// ==========================
// Internals
// ==========================

type current struct {
	draft    *models.WizardState
	identity *models.EmployeeIdentity
	pass     *models.Pass
}

func (c *current) progress() Progress {
	return Progress{
		Identified:  c.identity != nil,
		Category:    c.draft.Category,
		VisitorType: c.draft.VisitorType,
		PassIssued:  c.pass != nil,
	}
}

func (c *current) view() *View {
	return &View{Step: c.draft.Step, Draft: c.draft, Identity: c.identity}
}

func (c *current) formView() (*FormView, error) {
	spec, err := schema.Resolve(c.draft.Category, c.draft.VisitorType)
	if err != nil {
		return nil, err
	}
	return &FormView{Step: c.draft.Step, Spec: spec, Draft: c.draft}, nil
}

func (s *Service) load(ctx context.Context, scope *session.Scope) (*current, error) {
	draft, err := scope.Draft(ctx)
	if err != nil {
		return nil, err
	}
	identity, err := scope.Identity(ctx)
	if err != nil {
		return nil, err
	}
	pass, err := scope.Pass(ctx)
	if err != nil {
		return nil, err
	}
	return &current{draft: draft, identity: identity, pass: pass}, nil
}

// enter loads the session and moves it onto step. When the guard sends it
// elsewhere the pointer is moved there and a *Redirect is returned.
func (s *Service) enter(ctx context.Context, scope *session.Scope, step models.Step) (*current, error) {
	c, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	target := Guard(step, c.progress())
	if err := s.moveTo(ctx, scope, c.draft, target); err != nil {
		return nil, err
	}
	if target != step {
		metrics.GuardRedirects.WithLabelValues(string(step), string(target)).Inc()
		s.logger.Debug("Guard redirect", map[string]interface{}{
			"sessionId":  scope.ID,
			"requested":  string(step),
			"redirected": string(target),
		})
		return nil, &Redirect{Requested: step, Step: target}
	}
	return c, nil
}

// edit applies fn to the draft on the form step and stores the result.
func (s *Service) edit(ctx context.Context, scope *session.Scope, fn func(*schema.FieldSpec, *models.WizardState) error) (*FormView, error) {
	c, err := s.enter(ctx, scope, models.StepFormFill)
	if err != nil {
		return nil, err
	}
	view, err := c.formView()
	if err != nil {
		return nil, err
	}
	if err := fn(view.Spec, c.draft); err != nil {
		return nil, err
	}
	c.draft.UpdatedAt = s.now().UTC()
	if err := scope.SaveDraft(ctx, c.draft); err != nil {
		return nil, err
	}
	return view, nil
}

// moveTo sets the step pointer and stores the draft. Only real moves are
// recorded as transitions.
func (s *Service) moveTo(ctx context.Context, scope *session.Scope, draft *models.WizardState, to models.Step) error {
	now := s.now().UTC()
	from := draft.Step
	if from != to {
		if !draft.UpdatedAt.IsZero() {
			s.obs.RecordStepDuration(ctx, string(from), now.Sub(draft.UpdatedAt))
		}
		s.obs.RecordTransition(ctx, string(from), string(to))
		draft.Step = to
	}
	draft.UpdatedAt = now
	return scope.SaveDraft(ctx, draft)
}

func (s *Service) acquire(ctx context.Context, scope *session.Scope, gate string) (func(), error) {
	ok, err := scope.Acquire(ctx, gate)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewRequestInFlightError(gate)
	}
	return func() {
		if err := scope.Release(context.WithoutCancel(ctx), gate); err != nil {
			s.logger.WithError(err).Error("Failed to release busy flag", map[string]interface{}{
				"sessionId": scope.ID,
				"gate":      gate,
			})
		}
	}, nil
}

// sanitize keeps only the visitor fields the form collects.
func sanitize(spec *schema.FieldSpec, record models.VisitorRecord) (models.VisitorRecord, error) {
	if !record.Gender.IsValid() {
		return models.VisitorRecord{}, errors.NewValidationFailedError(
			fmt.Sprintf("gender must be one of Male, Female, Other, got %q", record.Gender))
	}

	out := models.VisitorRecord{Name: strings.TrimSpace(record.Name)}
	if spec.HasVisitorField(schema.VisitorAge) {
		out.Age = strings.TrimSpace(record.Age)
	}
	if spec.HasVisitorField(schema.VisitorGender) {
		out.Gender = record.Gender
	}
	if spec.HasVisitorField(schema.VisitorContact) {
		out.Contact = strings.TrimSpace(record.Contact)
	}
	if spec.HasVisitorField(schema.VisitorRelationship) {
		out.Relationship = strings.TrimSpace(record.Relationship)
	}
	return out, nil
}

func setField(draft *models.WizardState, key, value string) {
	switch key {
	case schema.FieldCompanyName:
		draft.CompanyName = value
	case schema.FieldCompanyAddress:
		draft.CompanyAddress = value
	case schema.FieldCountry:
		draft.Country = value
	case schema.FieldPurposeOfVisit:
		draft.PurposeOfVisit = value
	case schema.FieldStartDate:
		draft.StartDate = value
	case schema.FieldStartTime:
		draft.StartTime = value
	case schema.FieldEndDate:
		draft.EndDate = value
	case schema.FieldEndTime:
		draft.EndTime = value
	case schema.FieldTeamCaptain:
		draft.TeamCaptain = value
	case schema.FieldSportsType:
		draft.SportsType = value
	case schema.FieldGroupContact:
		draft.GroupContact = value
	case schema.FieldDeliverables:
		draft.Deliverables = value
	case schema.FieldDeliveryDate:
		draft.DeliveryDate = value
	}
}
