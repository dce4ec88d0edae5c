// Package session holds everything scoped to one browsing session: the
// verified employee identity, the wizard draft, the issued pass and the
// per-gate busy flags.
package session

import (
	"context"

	"visitor-registration/internal/models"
)

// Gates guarded by a busy flag.
const (
	GateVerify = "verify"
	GateSubmit = "submit"
)

// Store is the session-scoped key-value store. Loads return nil, nil when
// nothing was stored. Every access slides the session expiry forward.
type Store interface {
	SaveIdentity(ctx context.Context, sessionID string, identity *models.EmployeeIdentity) error
	LoadIdentity(ctx context.Context, sessionID string) (*models.EmployeeIdentity, error)

	SaveDraft(ctx context.Context, sessionID string, draft *models.WizardState) error
	LoadDraft(ctx context.Context, sessionID string) (*models.WizardState, error)

	SavePass(ctx context.Context, sessionID string, pass *models.Pass) error
	LoadPass(ctx context.Context, sessionID string) (*models.Pass, error)

	// Acquire sets the busy flag of gate and reports false if it was already held.
	Acquire(ctx context.Context, sessionID, gate string) (bool, error)
	Release(ctx context.Context, sessionID, gate string) error

	// Reset discards the draft and the pass. The verified identity stays for
	// the rest of the session.
	Reset(ctx context.Context, sessionID string) error

	Ping(ctx context.Context) error
	Close() error
}

// Scope binds a store to one session id. It is the handle passed from the
// verification step to the submission step.
type Scope struct {
	ID    string
	store Store
}

func NewScope(store Store, sessionID string) *Scope {
	return &Scope{ID: sessionID, store: store}
}

func (s *Scope) SaveIdentity(ctx context.Context, identity *models.EmployeeIdentity) error {
	return s.store.SaveIdentity(ctx, s.ID, identity)
}

func (s *Scope) Identity(ctx context.Context) (*models.EmployeeIdentity, error) {
	return s.store.LoadIdentity(ctx, s.ID)
}

// Draft returns the stored draft or a fresh one on the identity step.
func (s *Scope) Draft(ctx context.Context) (*models.WizardState, error) {
	draft, err := s.store.LoadDraft(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		draft = models.NewWizardState()
	}
	return draft, nil
}

func (s *Scope) SaveDraft(ctx context.Context, draft *models.WizardState) error {
	return s.store.SaveDraft(ctx, s.ID, draft)
}

func (s *Scope) Pass(ctx context.Context) (*models.Pass, error) {
	return s.store.LoadPass(ctx, s.ID)
}

func (s *Scope) SavePass(ctx context.Context, pass *models.Pass) error {
	return s.store.SavePass(ctx, s.ID, pass)
}

func (s *Scope) Acquire(ctx context.Context, gate string) (bool, error) {
	return s.store.Acquire(ctx, s.ID, gate)
}

func (s *Scope) Release(ctx context.Context, gate string) error {
	return s.store.Release(ctx, s.ID, gate)
}

func (s *Scope) Reset(ctx context.Context) error {
	return s.store.Reset(ctx, s.ID)
}
