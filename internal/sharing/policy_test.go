package sharing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/deckshareapp/deckshare-backend/pkg/db/models"
	dbtypes "github.com/deckshareapp/deckshare-backend/pkg/db/types"
	"github.com/deckshareapp/deckshare-backend/pkg/enums"
)

func TestResolveRole(t *testing.T) {
	owner := uuid.New()
	editor := uuid.New()
	viewer := uuid.New()
	stranger := uuid.New()

	deck := &models.Deck{
		ID:      uuid.New(),
		OwnerID: owner,
		Roles: dbtypes.RoleMap{
			editor: enums.DeckRoleEditor,
			viewer: enums.DeckRoleViewer,
		},
	}

	cases := []struct {
		name string
		user uuid.UUID
		want enums.DeckRole
	}{
		{"owner column wins", owner, enums.DeckRoleOwner},
		{"editor from map", editor, enums.DeckRoleEditor},
		{"viewer from map", viewer, enums.DeckRoleViewer},
		{"no entry resolves none", stranger, enums.DeckRoleNone},
		{"nil user resolves none", uuid.Nil, enums.DeckRoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveRole(deck, tc.user); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}

	if got := ResolveRole(nil, owner); got != enums.DeckRoleNone {
		t.Fatalf("expected none for nil deck, got %s", got)
	}
}

func TestResolveRoleIgnoresCorruptMapEntry(t *testing.T) {
	user := uuid.New()
	deck := &models.Deck{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Roles:   dbtypes.RoleMap{user: enums.DeckRole("superuser")},
	}
	if got := ResolveRole(deck, user); got != enums.DeckRoleNone {
		t.Fatalf("expected none for invalid stored role, got %s", got)
	}
}

func TestCanPerform(t *testing.T) {
	cases := []struct {
		role enums.DeckRole
		op   enums.DeckOperation
		want bool
	}{
		{enums.DeckRoleOwner, enums.DeckOperationShareOrInvite, true},
		{enums.DeckRoleOwner, enums.DeckOperationDeleteDeck, true},
		{enums.DeckRoleOwner, enums.DeckOperationEditContent, true},
		{enums.DeckRoleOwner, enums.DeckOperationReadDeck, true},
		{enums.DeckRoleEditor, enums.DeckOperationShareOrInvite, false},
		{enums.DeckRoleEditor, enums.DeckOperationDeleteDeck, false},
		{enums.DeckRoleEditor, enums.DeckOperationEditContent, true},
		{enums.DeckRoleEditor, enums.DeckOperationReadDeck, true},
		{enums.DeckRoleViewer, enums.DeckOperationShareOrInvite, false},
		{enums.DeckRoleViewer, enums.DeckOperationEditContent, false},
		{enums.DeckRoleViewer, enums.DeckOperationReadDeck, true},
		{enums.DeckRoleNone, enums.DeckOperationReadDeck, false},
		{enums.DeckRoleNone, enums.DeckOperationShareOrInvite, false},
	}
	for _, tc := range cases {
		if got := CanPerform(tc.role, tc.op); got != tc.want {
			t.Errorf("CanPerform(%s, %s) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}

	if CanPerform(enums.DeckRoleOwner, enums.DeckOperation("rename-deck")) {
		t.Fatal("unknown operation must be denied")
	}
}
