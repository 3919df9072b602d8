package donate

import "context"

// Store describes persistence operations required by the donation domain.
// The PostgreSQL implementation lives in internal/store/pg.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context, limit int) ([]User, error)
	UpdateUserStatus(ctx context.Context, id, status string) (User, error)

	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, id string) (Profile, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (Profile, error)

	CreateCampaign(ctx context.Context, c *Campaign) error
	GetCampaign(ctx context.Context, id string) (Campaign, error)
	GetCampaignBySlug(ctx context.Context, slug string) (Campaign, error)
	ListCampaigns(ctx context.Context, status string, limit int) ([]Campaign, error)
	UpdateCampaign(ctx context.Context, id string, upd CampaignUpdate) (Campaign, error)
	DeleteCampaign(ctx context.Context, id string) error

	CreateDonation(ctx context.Context, d *Donation) error
	GetDonation(ctx context.Context, id string) (Donation, error)
	ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]Donation, error)
	ListDonationsByDonor(ctx context.Context, donorID string, limit int) ([]Donation, error)
	SettleDonation(ctx context.Context, id, status string) (Donation, error)
	DonorStats(ctx context.Context, donorID string) (DonorStats, error)

	CreateOrganization(ctx context.Context, o *Organization) error
	GetOrganization(ctx context.Context, id string) (Organization, error)
	ListOrganizations(ctx context.Context, limit int) ([]Organization, error)
	UpdateOrganization(ctx context.Context, id string, upd OrganizationUpdate) (Organization, error)
	DeleteOrganization(ctx context.Context, id string) error
}
