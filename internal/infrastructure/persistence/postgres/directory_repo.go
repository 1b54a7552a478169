package postgres

import (
	"context"
	"fmt"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/directory"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// DIRECTORY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// DirectoryRepository implements directory.Repository for PostgreSQL.
type DirectoryRepository struct {
	conn *Connection
}

// NewDirectoryRepository creates a new DirectoryRepository.
func NewDirectoryRepository(conn *Connection) *DirectoryRepository {
	return &DirectoryRepository{conn: conn}
}

const profileColumns = `id, full_name, email, roles, skills, organization, title,
	   years_experience, available, registered_at`

// Create stores a new stakeholder profile.
func (r *DirectoryRepository) Create(ctx context.Context, profile *directory.StakeholderProfile) error {
	query := `
		INSERT INTO stakeholder_profiles (
			id, full_name, email, roles, skills, organization, title,
			years_experience, available, registered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.conn.Exec(ctx, query,
		string(profile.ID),
		profile.FullName,
		string(profile.Email),
		profile.Roles.Strings(),
		profile.Skills.Strings(),
		profile.Organization,
		profile.Title,
		profile.YearsExperience,
		profile.Available,
		profile.RegisteredAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrProfileAlreadyExists
		}
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// Update stores a modified stakeholder profile.
func (r *DirectoryRepository) Update(ctx context.Context, profile *directory.StakeholderProfile) error {
	query := `
		UPDATE stakeholder_profiles SET
			full_name = $1,
			email = $2,
			roles = $3,
			skills = $4,
			organization = $5,
			title = $6,
			years_experience = $7,
			available = $8
		WHERE id = $9
	`

	result, err := r.conn.Exec(ctx, query,
		profile.FullName,
		string(profile.Email),
		profile.Roles.Strings(),
		profile.Skills.Strings(),
		profile.Organization,
		profile.Title,
		profile.YearsExperience,
		profile.Available,
		string(profile.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrProfileNotFound
	}

	return nil
}

// FindByID returns a profile by ID.
func (r *DirectoryRepository) FindByID(ctx context.Context, id shared.ProfileID) (*directory.StakeholderProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM stakeholder_profiles WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanProfile(row)
}

// FindByEmail returns a profile by email.
func (r *DirectoryRepository) FindByEmail(ctx context.Context, email shared.Email) (*directory.StakeholderProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM stakeholder_profiles WHERE email = $1`

	row := r.conn.QueryRow(ctx, query, string(email))
	return r.scanProfile(row)
}

// FindAvailableByRole returns available profiles holding a role.
// Ordered by registration time then ID so ranking ties break deterministically.
func (r *DirectoryRepository) FindAvailableByRole(ctx context.Context, role directory.Role) ([]*directory.StakeholderProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM stakeholder_profiles
		WHERE available = TRUE AND $1 = ANY(roles)
		ORDER BY registered_at, id
	`

	rows, err := r.conn.Query(ctx, query, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles by role: %w", err)
	}
	defer rows.Close()

	return r.scanProfiles(rows)
}

// FindAll returns every profile in the directory.
func (r *DirectoryRepository) FindAll(ctx context.Context) ([]*directory.StakeholderProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM stakeholder_profiles ORDER BY registered_at, id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	return r.scanProfiles(rows)
}

// Count returns the total number of profiles.
func (r *DirectoryRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM stakeholder_profiles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *DirectoryRepository) scanProfile(row pgx.Row) (*directory.StakeholderProfile, error) {
	var (
		p      directory.StakeholderProfile
		id     string
		email  string
		roles  []string
		skills []string
	)

	err := row.Scan(
		&id,
		&p.FullName,
		&email,
		&roles,
		&skills,
		&p.Organization,
		&p.Title,
		&p.YearsExperience,
		&p.Available,
		&p.RegisteredAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.ID = shared.ProfileID(id)
	p.Email = shared.Email(email)
	p.Roles = rolesFromStrings(roles)
	p.Skills = shared.NewSkillSet(skills...)

	return &p, nil
}

func (r *DirectoryRepository) scanProfiles(rows pgx.Rows) ([]*directory.StakeholderProfile, error) {
	var profiles []*directory.StakeholderProfile

	for rows.Next() {
		p, err := r.scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}

func rolesFromStrings(values []string) directory.RoleSet {
	roles := make(directory.RoleSet, 0, len(values))
	for _, v := range values {
		roles = append(roles, directory.Role(v))
	}
	return roles
}
