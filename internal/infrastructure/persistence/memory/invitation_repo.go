package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/invitation"
	"github.com/cmis-hub/cmis-engagement-hub/internal/domain/shared"
)

// invitationKey enforces the one-invitation-per-(recipient, subject) rule.
type invitationKey struct {
	recipientID shared.ProfileID
	subjectType invitation.SubjectType
	subjectID   shared.SubjectID
}

// InvitationRepository is an in-memory invitation.Repository.
type InvitationRepository struct {
	mu     sync.RWMutex
	byID   map[invitation.InvitationID]*invitation.Invitation
	byPair map[invitationKey]invitation.InvitationID
}

// NewInvitationRepository creates an empty in-memory invitation store.
func NewInvitationRepository() *InvitationRepository {
	return &InvitationRepository{
		byID:   make(map[invitation.InvitationID]*invitation.Invitation),
		byPair: make(map[invitationKey]invitation.InvitationID),
	}
}

func keyOf(inv *invitation.Invitation) invitationKey {
	return invitationKey{
		recipientID: inv.RecipientID,
		subjectType: inv.Subject.Type,
		subjectID:   inv.Subject.ID,
	}
}

// Create implements invitation.Repository. A second invitation for the
// same (recipient, subject) pair fails with ErrDuplicateInvitation.
func (r *InvitationRepository) Create(_ context.Context, inv *invitation.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[inv.ID]; ok {
		return shared.ErrDuplicateInvitation
	}
	key := keyOf(inv)
	if _, ok := r.byPair[key]; ok {
		return shared.ErrDuplicateInvitation
	}

	cp := *inv
	r.byID[inv.ID] = &cp
	r.byPair[key] = inv.ID
	return nil
}

// Update implements invitation.Repository.
func (r *InvitationRepository) Update(_ context.Context, inv *invitation.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[inv.ID]; !ok {
		return shared.ErrInvitationNotFound
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

// FindByID implements invitation.Repository.
func (r *InvitationRepository) FindByID(_ context.Context, id invitation.InvitationID) (*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inv, ok := r.byID[id]
	if !ok {
		return nil, shared.ErrInvitationNotFound
	}
	cp := *inv
	return &cp, nil
}

// FindBySubject implements invitation.Repository.
func (r *InvitationRepository) FindBySubject(_ context.Context, subject invitation.SubjectRef) ([]*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*invitation.Invitation, 0)
	for _, inv := range r.byID {
		if inv.Subject == subject {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sortInvitations(out)
	return out, nil
}

// FindByRecipient implements invitation.Repository.
func (r *InvitationRepository) FindByRecipient(_ context.Context, recipientID shared.ProfileID) ([]*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*invitation.Invitation, 0)
	for _, inv := range r.byID {
		if inv.RecipientID == recipientID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sortInvitations(out)
	return out, nil
}

// FindPendingBefore implements invitation.Repository.
func (r *InvitationRepository) FindPendingBefore(_ context.Context, cutoff time.Time) ([]*invitation.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*invitation.Invitation, 0)
	for _, inv := range r.byID {
		if !inv.Status.IsPending() {
			continue
		}
		last := inv.SentAt
		if inv.LastFollowUpAt != nil {
			last = *inv.LastFollowUpAt
		}
		if !last.After(cutoff) {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sortInvitations(out)
	return out, nil
}

// CountByStatus implements invitation.Repository.
func (r *InvitationRepository) CountByStatus(_ context.Context) (map[invitation.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[invitation.Status]int)
	for _, inv := range r.byID {
		counts[inv.Status]++
	}
	return counts, nil
}

// newest first, ID as tie-break
func sortInvitations(invitations []*invitation.Invitation) {
	sort.SliceStable(invitations, func(i, j int) bool {
		if invitations[i].SentAt.Equal(invitations[j].SentAt) {
			return invitations[i].ID < invitations[j].ID
		}
		return invitations[i].SentAt.After(invitations[j].SentAt)
	})
}
