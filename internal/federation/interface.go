package federation

// FederationService defines the operations for managing clubs and federations.
type FederationService interface {
	CreateFederation(name string) (*Federation, error)
	ListFederations() ([]Federation, error)
	CreateClub(name, city string) (*Club, error)
	GetClub(clubID string) (*Club, error)
	ListClubs() ([]Club, error)
	AssignClubToFederation(clubID, federationID string) error
}
