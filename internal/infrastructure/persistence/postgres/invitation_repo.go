package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVITATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// InvitationRepository implements invitation.Repository for PostgreSQL.
// The UNIQUE(recipient_id, subject_type, subject_id) constraint enforces
// the one-invitation-per-stakeholder-per-subject rule at the storage level.
type InvitationRepository struct {
	conn *Connection
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(conn *Connection) *InvitationRepository {
	return &InvitationRepository{conn: conn}
}

const invitationColumns = `id, recipient_id, recipient_name, recipient_email,
	   subject_type, subject_id, subject_title, matched_terms, match_reason,
	   match_score, status, sent_at, responded_at, follow_up_count, last_follow_up_at`

// Create stores a new invitation.
// Returns shared.ErrDuplicateInvitation when the recipient was already
// invited to the subject.
func (r *InvitationRepository) Create(ctx context.Context, inv *invitation.Invitation) error {
	query := `
		INSERT INTO invitations (
			id, recipient_id, recipient_name, recipient_email,
			subject_type, subject_id, subject_title, matched_terms, match_reason,
			match_score, status, sent_at, responded_at, follow_up_count, last_follow_up_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.conn.Exec(ctx, query,
		string(inv.ID),
		string(inv.RecipientID),
		inv.RecipientName,
		string(inv.RecipientEmail),
		string(inv.Subject.Type),
		string(inv.Subject.ID),
		inv.SubjectTitle,
		inv.MatchedTerms.Strings(),
		inv.MatchReason,
		inv.MatchScore,
		string(inv.Status),
		inv.SentAt,
		inv.RespondedAt,
		inv.FollowUpCount,
		inv.LastFollowUpAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrDuplicateInvitation
		}
		return fmt.Errorf("failed to create invitation: %w", err)
	}

	return nil
}

// Update stores a modified invitation.
func (r *InvitationRepository) Update(ctx context.Context, inv *invitation.Invitation) error {
	query := `
		UPDATE invitations SET
			status = $1,
			responded_at = $2,
			follow_up_count = $3,
			last_follow_up_at = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query,
		string(inv.Status),
		inv.RespondedAt,
		inv.FollowUpCount,
		inv.LastFollowUpAt,
		string(inv.ID),
	)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrInvitationNotFound
	}

	return nil
}

// FindByID returns an invitation by ID.
func (r *InvitationRepository) FindByID(ctx context.Context, id invitation.InvitationID) (*invitation.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1`

	row := r.conn.QueryRow(ctx, query, string(id))
	return r.scanInvitation(row)
}

// FindBySubject returns all invitations for a subject, newest first.
func (r *InvitationRepository) FindBySubject(ctx context.Context, subject invitation.SubjectRef) ([]*invitation.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE subject_type = $1 AND subject_id = $2
		ORDER BY sent_at DESC, id
	`

	rows, err := r.conn.Query(ctx, query, string(subject.Type), string(subject.ID))
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations by subject: %w", err)
	}
	defer rows.Close()

	return r.scanInvitations(rows)
}

// FindByRecipient returns all invitations for a recipient, newest first.
func (r *InvitationRepository) FindByRecipient(ctx context.Context, recipientID shared.ProfileID) ([]*invitation.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE recipient_id = $1
		ORDER BY sent_at DESC, id
	`

	rows, err := r.conn.Query(ctx, query, string(recipientID))
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations by recipient: %w", err)
	}
	defer rows.Close()

	return r.scanInvitations(rows)
}

// FindPendingBefore returns pending invitations whose last touch
// (follow-up if any, otherwise the original send) is not after cutoff.
func (r *InvitationRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]*invitation.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE status = $1 AND COALESCE(last_follow_up_at, sent_at) <= $2
		ORDER BY sent_at, id
	`

	rows, err := r.conn.Query(ctx, query, string(invitation.StatusPending), cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invitations: %w", err)
	}
	defer rows.Close()

	return r.scanInvitations(rows)
}

// CountByStatus returns invitation counts per status.
func (r *InvitationRepository) CountByStatus(ctx context.Context) (map[invitation.Status]int, error) {
	query := `SELECT status, COUNT(*) FROM invitations GROUP BY status`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count invitations: %w", err)
	}
	defer rows.Close()

	counts := make(map[invitation.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan invitation count: %w", err)
		}
		counts[invitation.Status(status)] = count
	}

	return counts, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *InvitationRepository) scanInvitation(row pgx.Row) (*invitation.Invitation, error) {
	var (
		inv          invitation.Invitation
		id           string
		recipientID  string
		email        string
		subjectType  string
		subjectID    string
		matchedTerms []string
		status       string
	)

	err := row.Scan(
		&id,
		&recipientID,
		&inv.RecipientName,
		&email,
		&subjectType,
		&subjectID,
		&inv.SubjectTitle,
		&matchedTerms,
		&inv.MatchReason,
		&inv.MatchScore,
		&status,
		&inv.SentAt,
		&inv.RespondedAt,
		&inv.FollowUpCount,
		&inv.LastFollowUpAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}

	inv.ID = invitation.InvitationID(id)
	inv.RecipientID = shared.ProfileID(recipientID)
	inv.RecipientEmail = shared.Email(email)
	inv.Subject = invitation.SubjectRef{
		Type: invitation.SubjectType(subjectType),
		ID:   shared.SubjectID(subjectID),
	}
	inv.MatchedTerms = shared.NewSkillSet(matchedTerms...)
	inv.Status = invitation.Status(status)

	return &inv, nil
}

func (r *InvitationRepository) scanInvitations(rows pgx.Rows) ([]*invitation.Invitation, error) {
	var invitations []*invitation.Invitation

	for rows.Next() {
		inv, err := r.scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}
