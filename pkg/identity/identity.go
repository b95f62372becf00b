package identity

// Kind discriminates the identity variants.
type Kind string

const (
	// KindNone means no actor is signed in
	KindNone Kind = "none"
	// KindGuest means a locally provisioned guest actor
	KindGuest Kind = "guest"
	// KindRegistered means a provider-backed registered user
	KindRegistered Kind = "registered"
)

// Identity represents the authenticated actor. Exactly one variant is
// current at any time; the zero value is the None variant.
type Identity struct {
	Kind        Kind   `json:"kind"`
	ID          string `json:"id,omitempty"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoRef    string `json:"photo_ref,omitempty"`
	GuestID     string `json:"guest_id,omitempty"`
}

// None returns the nobody identity.
func None() Identity {
	return Identity{Kind: KindNone}
}

// Registered constructs a registered-user identity.
func Registered(id, email, displayName, photoRef string) Identity {
	return Identity{
		Kind:        KindRegistered,
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		PhotoRef:    photoRef,
	}
}

// Guest constructs a guest identity with the given local ids.
func Guest(id, guestID string) Identity {
	return Identity{
		Kind:    KindGuest,
		ID:      id,
		GuestID: guestID,
	}
}

// IsNone reports whether nobody is signed in.
func (i Identity) IsNone() bool {
	return i.Kind == KindNone || i.Kind == ""
}

// IsGuest reports whether the current actor is a guest.
func (i Identity) IsGuest() bool {
	return i.Kind == KindGuest
}

// IsRegistered reports whether the current actor is a registered user.
func (i Identity) IsRegistered() bool {
	return i.Kind == KindRegistered
}
