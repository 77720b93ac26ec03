package permission

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/campusdesk/campusdesk/internal/shared/logger"
)

// rbacModel is plain RBAC: users hold roles, roles hold (object, action).
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Enforcer guards the casbin enforcer, whose policy lives in the casbin_rule
// table through the gorm adapter.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

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

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func (e *Enforcer) Enforce(subject string, resource string, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject, resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "subject", subject, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}

	return allowed, nil
}

// AddPolicies grants (role, resource, action) rules that are not present yet.
func (e *Enforcer) AddPolicies(rules [][]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, rule := range rules {
		if len(rule) != 3 {
			return fmt.Errorf("policy rule must have 3 fields, got %v", rule)
		}
		has, err := e.enforcer.HasPolicy(rule[0], rule[1], rule[2])
		if err != nil {
			return fmt.Errorf("failed to check policy: %w", err)
		}
		if has {
			continue
		}
		if _, err := e.enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
			e.logger.Errorw("failed to add policy", "error", err, "rule", rule)
			return fmt.Errorf("failed to add policy: %w", err)
		}
	}
	return nil
}

func (e *Enforcer) AddRoleForUser(subject string, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUser(subject, role); err != nil {
		e.logger.Errorw("failed to add role for user", "error", err, "subject", subject, "role", role)
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) DeleteRoleForUser(subject string, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.DeleteRoleForUser(subject, role); err != nil {
		e.logger.Errorw("failed to delete role for user", "error", err, "subject", subject, "role", role)
		return fmt.Errorf("failed to delete role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) GetRolesForUser(subject string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roles, err := e.enforcer.GetRolesForUser(subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user: %w", err)
	}

	return roles, nil
}

func (e *Enforcer) GetUsersForRole(role string) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	users, err := e.enforcer.GetUsersForRole(role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users for role: %w", err)
	}

	return users, nil
}

// GetAllSubjectsWithRoles returns every user that holds at least one role.
func (e *Enforcer) GetAllSubjectsWithRoles() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules, err := e.enforcer.GetGroupingPolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to list role assignments: %w", err)
	}
	seen := make(map[string]struct{}, len(rules))
	subjects := make([]string, 0, len(rules))
	for _, rule := range rules {
		if len(rule) == 0 {
			continue
		}
		if _, ok := seen[rule[0]]; ok {
			continue
		}
		seen[rule[0]] = struct{}{}
		subjects = append(subjects, rule[0])
	}
	return subjects, nil
}

// LoadPolicy re-reads the rules from the database, picking up changes made
// by another process such as `campusdesk roles sync`.
func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Info("policy reloaded successfully")
	return nil
}
