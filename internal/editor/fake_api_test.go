package editor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mtlprog/agentdesk/internal/domain"
)

// fakeAPI is an in-memory backend holding a single agent.
type fakeAPI struct {
	mu       sync.Mutex
	agent    *domain.Agent
	versions []*domain.AgentVersion
	calls    map[string]int

	saveErr     error
	createErr   error
	activateErr error

	// Hooks run before the write is applied, without the fake's lock held.
	onSave   func()
	onCreate func()
}

func newFakeAPI(agent *domain.Agent, initial domain.Config) *fakeAPI {
	f := &fakeAPI{agent: agent, calls: map[string]int{}}
	v := f.appendVersionLocked(initial, "Initial version")
	f.agent.CurrentVersionID = &v.ID
	f.agent.Config = initial.Clone()
	return f
}

func (f *fakeAPI) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeAPI) writes() int {
	return f.count("SaveAgent") + f.count("CreateVersion") + f.count("UpdateAgent") + f.count("ActivateVersion")
}

func (f *fakeAPI) latest() *domain.AgentVersion {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.versions[len(f.versions)-1]
}

func (f *fakeAPI) appendVersionLocked(cfg domain.Config, description string) *domain.AgentVersion {
	n := len(f.versions) + 1
	v := &domain.AgentVersion{
		ID:                fmt.Sprintf("version-%d", n),
		AgentID:           f.agent.ID,
		Number:            n,
		Name:              domain.VersionName(n),
		Config:            cfg.Clone(),
		ChangeDescription: description,
		CreatedAt:         time.Now(),
	}
	f.versions = append(f.versions, v)
	return v
}

func (f *fakeAPI) findLocked(versionID string) *domain.AgentVersion {
	for _, v := range f.versions {
		if v.ID == versionID {
			return v
		}
	}
	return nil
}

func (f *fakeAPI) snapshotLocked() *domain.Agent {
	a := *f.agent
	a.Config = f.agent.Config.Clone()
	if f.agent.CurrentVersionID != nil {
		id := *f.agent.CurrentVersionID
		a.CurrentVersionID = &id
		if v := f.findLocked(id); v != nil {
			cp := *v
			cp.Config = v.Config.Clone()
			a.CurrentVersion = &cp
		}
	}
	return &a
}

func (f *fakeAPI) checkBaseLocked(base *string) error {
	if base != nil && !f.agent.IsCurrentVersion(*base) {
		return domain.ErrVersionConflict
	}
	return nil
}

func (f *fakeAPI) GetAgent(_ context.Context, agentID string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetAgent"]++
	if agentID != f.agent.ID {
		return nil, domain.ErrAgentNotFound
	}
	return f.snapshotLocked(), nil
}

func (f *fakeAPI) GetVersion(_ context.Context, _ string, versionID string) (*domain.AgentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetVersion"]++
	v := f.findLocked(versionID)
	if v == nil {
		return nil, domain.ErrVersionNotFound
	}
	cp := *v
	cp.Config = v.Config.Clone()
	return &cp, nil
}

func (f *fakeAPI) ListVersions(_ context.Context, _ string) ([]*domain.AgentVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListVersions"]++
	out := make([]*domain.AgentVersion, 0, len(f.versions))
	for i := len(f.versions) - 1; i >= 0; i-- {
		out = append(out, f.versions[i])
	}
	return out, nil
}

func (f *fakeAPI) CreateVersion(_ context.Context, _ string, in domain.VersionInput) (*domain.AgentVersion, error) {
	if f.onCreate != nil {
		f.onCreate()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["CreateVersion"]++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if err := f.checkBaseLocked(in.BaseVersionID); err != nil {
		return nil, err
	}
	v := f.appendVersionLocked(in.Config, in.ChangeDescription)
	f.agent.CurrentVersionID = &v.ID
	f.agent.Config = in.Config.Clone()
	cp := *v
	return &cp, nil
}

func (f *fakeAPI) UpdateAgent(_ context.Context, _ string, identity domain.Identity) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["UpdateAgent"]++
	f.agent.Identity = identity
	return f.snapshotLocked(), nil
}

func (f *fakeAPI) ActivateVersion(_ context.Context, _ string, versionID string) (*domain.Agent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ActivateVersion"]++
	if f.activateErr != nil {
		return nil, f.activateErr
	}
	v := f.findLocked(versionID)
	if v == nil {
		return nil, domain.ErrVersionNotFound
	}
	f.agent.CurrentVersionID = &v.ID
	f.agent.Config = v.Config.Clone()
	return f.snapshotLocked(), nil
}

func (f *fakeAPI) SaveAgent(_ context.Context, _ string, in domain.SaveInput) (*domain.Agent, *domain.AgentVersion, error) {
	if f.onSave != nil {
		f.onSave()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["SaveAgent"]++
	if f.saveErr != nil {
		return nil, nil, f.saveErr
	}
	if err := f.checkBaseLocked(in.Version.BaseVersionID); err != nil {
		return nil, nil, err
	}
	v := f.appendVersionLocked(in.Version.Config, in.Version.ChangeDescription)
	f.agent.Identity = in.Identity
	f.agent.CurrentVersionID = &v.ID
	f.agent.Config = in.Version.Config.Clone()
	cp := *v
	return f.snapshotLocked(), &cp, nil
}

var _ AgentAPI = (*fakeAPI)(nil)
