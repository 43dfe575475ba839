// Package account implements profile provisioning and tenant resolution.
// It sits between the authentication handlers and the repositories: handlers
// hand it a verified identity (email/password or a Google ID token) and get
// back a profile with its role assignments loaded.
package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/telemetry"
)

// ProfileStore is the subset of the profile repository the provisioner needs
type ProfileStore interface {
	CreateProfile(ctx context.Context, profile *models.Profile) (bool, error)
	GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetProfileByGoogleSub(ctx context.Context, sub string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
}

// RoleStore is the subset of the role repository the provisioner needs
type RoleStore interface {
	CreateAssignment(ctx context.Context, assignment *models.RoleAssignment) error
	ListAssignmentsByUser(ctx context.Context, userID string) ([]models.RoleAssignment, error)
}

// ProvisionRequest carries a verified identity into EnsureProfile.
// PasswordHash is set for password registration; GoogleSub for Google sign-in.
type ProvisionRequest struct {
	Email        string
	Name         string
	AvatarURL    *string
	GoogleSub    *string
	PasswordHash *string
}

// Provisioner resolves verified identities to profiles, creating them on
// first sign-in. The account whose email matches masterEmail is granted the
// master role at creation; everyone else starts as an unassigned member.
type Provisioner struct {
	profiles    ProfileStore
	roles       RoleStore
	masterEmail string
}

// NewProvisioner creates a Provisioner. masterEmail comes from auth.master_email.
func NewProvisioner(profiles ProfileStore, roles RoleStore, masterEmail string) *Provisioner {
	return &Provisioner{
		profiles:    profiles,
		roles:       roles,
		masterEmail: strings.ToLower(strings.TrimSpace(masterEmail)),
	}
}

// EnsureProfile finds or creates the profile for a verified identity and
// returns it with role assignments loaded. The second return value reports
// whether a new profile was created by this call.
//
// Provisioning is idempotent: a concurrent first sign-in loses the insert
// race, observes the conflict, and falls back to reading the winner's row.
func (p *Provisioner) EnsureProfile(ctx context.Context, req ProvisionRequest) (*models.ProfileWithRoles, bool, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Google sign-ins resolve by subject first: the email on a Google account
	// can change, the subject never does.
	if req.GoogleSub != nil {
		profile, err := p.profiles.GetProfileByGoogleSub(ctx, *req.GoogleSub)
		if err != nil {
			return nil, false, err
		}
		if profile != nil {
			return p.withRoles(ctx, profile, false)
		}
	}

	profile, err := p.profiles.GetProfileByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}

	if profile != nil {
		// Password registration against an existing account is a conflict,
		// not a silent takeover.
		if req.PasswordHash != nil {
			return nil, false, auth.ErrEmailTaken
		}
		// First Google sign-in on an account registered by email: link the
		// subject so later sign-ins resolve directly.
		if req.GoogleSub != nil && profile.GoogleSub == nil {
			profile.GoogleSub = req.GoogleSub
			if req.AvatarURL != nil && profile.AvatarURL == nil {
				profile.AvatarURL = req.AvatarURL
			}
			if err := p.profiles.UpdateProfile(ctx, profile); err != nil {
				return nil, false, err
			}
		}
		return p.withRoles(ctx, profile, false)
	}

	profile = &models.Profile{
		Email:        email,
		Name:         displayName(req.Name, email),
		AvatarURL:    req.AvatarURL,
		GoogleSub:    req.GoogleSub,
		PasswordHash: req.PasswordHash,
	}

	created, err := p.profiles.CreateProfile(ctx, profile)
	if err != nil {
		return nil, false, err
	}

	if !created {
		// Lost the insert race; the concurrent sign-in already provisioned.
		profile, err = p.profiles.GetProfileByEmail(ctx, email)
		if err != nil {
			return nil, false, err
		}
		if profile == nil {
			return nil, false, auth.ErrInvalidCredentials
		}
		return p.withRoles(ctx, profile, false)
	}

	telemetry.ProfileProvisionsTotal.Inc()

	role := auth.RoleMember
	if p.masterEmail != "" && email == p.masterEmail {
		role = auth.RoleMaster
	}

	if err := p.roles.CreateAssignment(ctx, &models.RoleAssignment{
		UserID: profile.ID,
		Role:   string(role),
	}); err != nil {
		return nil, false, err
	}

	slog.Info("provisioned profile", "profile_id", profile.ID, "role", string(role))

	return p.withRoles(ctx, profile, true)
}

func (p *Provisioner) withRoles(ctx context.Context, profile *models.Profile, created bool) (*models.ProfileWithRoles, bool, error) {
	roles, err := p.roles.ListAssignmentsByUser(ctx, profile.ID)
	if err != nil {
		return nil, false, err
	}
	return &models.ProfileWithRoles{Profile: *profile, Roles: roles}, created, nil
}

// displayName picks a display name: the explicit name when given, then the
// local part of the email, then a generic fallback.
func displayName(name, email string) string {
	if n := strings.TrimSpace(name); n != "" {
		return n
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}
