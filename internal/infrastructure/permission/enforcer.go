// Package permission backs the role matrix with casbin so grants can be
// inspected and changed in the casbin_rule table without a redeploy.
package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"helpdesk/internal/domain/access"
	vo "helpdesk/internal/domain/user/valueobjects"
	"helpdesk/internal/shared/logger"
)

var _ access.RoleMatrix = (*Enforcer)(nil)

// rbacModel matches role, object and verb exactly.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer loads policies from the casbin_rule table.
func NewEnforcer(db *gorm.DB, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

// NewMemoryEnforcer keeps policies in memory only.
func NewMemoryEnforcer(log logger.Interface) (*Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	return &Enforcer{enforcer: enforcer, logger: log}, nil
}

// Allows never returns true on an enforcement error.
func (e *Enforcer) Allows(role vo.Role, action access.Action) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(role.String(), action.Object(), action.Verb())
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "role", role, "action", action)
		return false
	}
	return allowed
}

func (e *Enforcer) Grant(role vo.Role, action access.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(role.String(), action.Object(), action.Verb()); err != nil {
		e.logger.Errorw("failed to add policy", "error", err, "role", role, "action", action)
		return fmt.Errorf("failed to add policy: %w", err)
	}
	return nil
}

func (e *Enforcer) Revoke(role vo.Role, action access.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.RemovePolicy(role.String(), action.Object(), action.Verb()); err != nil {
		e.logger.Errorw("failed to remove policy", "error", err, "role", role, "action", action)
		return fmt.Errorf("failed to remove policy: %w", err)
	}
	return nil
}

// Grants lists the actions currently granted to role.
func (e *Enforcer) Grants(role vo.Role) ([]access.Action, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules, err := e.enforcer.GetFilteredPolicy(0, role.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}
	actions := make([]access.Action, 0, len(rules))
	for _, rule := range rules {
		actions = append(actions, access.Action(rule[1]+":"+rule[2]))
	}
	return actions, nil
}

// SeedDefaults adds every grant from grants that is missing. Existing extra
// rules are left alone.
func (e *Enforcer) SeedDefaults(grants map[vo.Role][]access.Action) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	added := 0
	for role, actions := range grants {
		for _, action := range actions {
			ok, err := e.enforcer.AddPolicy(role.String(), action.Object(), action.Verb())
			if err != nil {
				return added, fmt.Errorf("failed to add policy [%s, %s]: %w", role, action, err)
			}
			if ok {
				added++
			}
		}
	}

	if added > 0 {
		e.logger.Infow("role permissions seeded", "added", added)
	}
	return added, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
