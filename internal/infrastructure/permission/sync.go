package permission

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/campusdesk/campusdesk/internal/shared/logger"
	"github.com/campusdesk/campusdesk/internal/shared/utils"
)

// RoleSeed is the YAML file that lists desk staff:
//
//	users:
//	  - id: 2
//	    name: Priya Raman
//	    email: priya@campus.example
//	    roles: [handler]
type RoleSeed struct {
	Users []SeedUser `yaml:"users"`
}

type SeedUser struct {
	ID    uint     `yaml:"id" validate:"required"`
	Name  string   `yaml:"name" validate:"omitempty,max=100"`
	Email string   `yaml:"email" validate:"omitempty,email,max=255"`
	Roles []string `yaml:"roles"`
}

// LoadRoleSeed reads and checks a seed file.
func LoadRoleSeed(path string) (*RoleSeed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read role seed: %w", err)
	}
	return ParseRoleSeed(raw)
}

func ParseRoleSeed(raw []byte) (*RoleSeed, error) {
	var seed RoleSeed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse role seed: %w", err)
	}

	seen := make(map[uint]struct{}, len(seed.Users))
	for i, u := range seed.Users {
		if err := utils.ValidateStruct(u); err != nil {
			return nil, fmt.Errorf("role seed entry %d: %w", i, err)
		}
		if _, dup := seen[u.ID]; dup {
			return nil, fmt.Errorf("role seed entry %d: duplicate id %d", i, u.ID)
		}
		seen[u.ID] = struct{}{}
		for _, r := range u.Roles {
			if !KnownRole(r) {
				return nil, fmt.Errorf("role seed entry %d: unknown role %q", i, r)
			}
		}
	}
	return &seed, nil
}

type PermissionSync struct {
	enforcer *Enforcer
	logger   logger.Interface
}

func NewPermissionSync(enforcer *Enforcer, logger logger.Interface) *PermissionSync {
	return &PermissionSync{
		enforcer: enforcer,
		logger:   logger,
	}
}

// SyncToCasbin makes casbin role assignments match the seed exactly: listed
// roles are granted, and roles of users missing from the seed are revoked.
func (s *PermissionSync) SyncToCasbin(seed *RoleSeed) error {
	s.logger.Info("syncing roles to Casbin...")

	if err := InitTicketPermissions(s.enforcer, s.logger); err != nil {
		return err
	}

	wanted := make(map[string][]string, len(seed.Users))
	for _, u := range seed.Users {
		wanted[Subject(u.ID)] = u.Roles
	}

	existing, err := s.enforcer.GetAllSubjectsWithRoles()
	if err != nil {
		return err
	}
	for _, subject := range existing {
		if _, ok := wanted[subject]; !ok {
			wanted[subject] = nil
		}
	}

	granted, revoked := 0, 0
	for subject, roles := range wanted {
		current, err := s.enforcer.GetRolesForUser(subject)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if slices.Contains(current, r) {
				continue
			}
			if err := s.enforcer.AddRoleForUser(subject, r); err != nil {
				return err
			}
			granted++
		}
		for _, r := range current {
			if slices.Contains(roles, r) {
				continue
			}
			if err := s.enforcer.DeleteRoleForUser(subject, r); err != nil {
				return err
			}
			revoked++
		}
	}

	s.logger.Infow("roles synced to Casbin successfully", "granted", granted, "revoked", revoked)
	return nil
}
