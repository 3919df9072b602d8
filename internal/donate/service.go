package donate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"missiondonate.org/internal/ids"
)

const defaultListLimit = 50

// Service validates inputs and delegates persistence to a Store.
type Service struct {
	store Store
}

// NewService wires the domain service to its store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("donate store is required")
	}
	return &Service{store: store}, nil
}

// Users ----------------------------------------------------------------

func (s *Service) RegisterUser(ctx context.Context, email, passwordHash, role string) (User, Profile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, Profile{}, fmt.Errorf("%w: valid email is required", ErrInvalidInput)
	}
	if strings.TrimSpace(passwordHash) == "" {
		return User{}, Profile{}, fmt.Errorf("%w: password hash is required", ErrInvalidInput)
	}
	role = strings.TrimSpace(strings.ToLower(role))
	switch role {
	case "admin", "missionary", "donor":
	default:
		return User{}, Profile{}, fmt.Errorf("%w: unsupported role %s", ErrInvalidInput, role)
	}

	user := User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       UserActive,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return User{}, Profile{}, err
	}
	profile := Profile{ID: user.ID}
	if err := s.store.CreateProfile(ctx, &profile); err != nil {
		return User{}, Profile{}, err
	}
	return user, profile, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return s.store.GetUser(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return s.store.GetUserByEmail(ctx, email)
}

func (s *Service) ListUsers(ctx context.Context, limit int) ([]User, error) {
	return s.store.ListUsers(ctx, clampLimit(limit))
}

func (s *Service) UpdateUserStatus(ctx context.Context, id, status string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	status = strings.TrimSpace(strings.ToLower(status))
	if status != UserActive && status != UserDisabled {
		return User{}, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}
	return s.store.UpdateUserStatus(ctx, id, status)
}

// Profiles -------------------------------------------------------------

func (s *Service) GetProfile(ctx context.Context, id string) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, fmt.Errorf("%w: profile id is required", ErrInvalidInput)
	}
	return s.store.GetProfile(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Profile{}, fmt.Errorf("%w: profile id is required", ErrInvalidInput)
	}
	if upd.FullName != nil {
		name := strings.TrimSpace(*upd.FullName)
		if name == "" {
			return Profile{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		upd.FullName = &name
	}
	return s.store.UpdateProfile(ctx, id, upd)
}

// Campaigns ------------------------------------------------------------

func (s *Service) CreateCampaign(ctx context.Context, missionaryID, title, description string, goal int64) (Campaign, error) {
	missionaryID = strings.TrimSpace(missionaryID)
	if missionaryID == "" {
		return Campaign{}, fmt.Errorf("%w: missionary id is required", ErrInvalidInput)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return Campaign{}, fmt.Errorf("%w: campaign title is required", ErrInvalidInput)
	}
	if goal <= 0 {
		return Campaign{}, fmt.Errorf("%w: goal must be positive", ErrInvalidInput)
	}

	campaign := Campaign{
		ID:           ids.New(),
		MissionaryID: missionaryID,
		Title:        title,
		Slug:         Slugify(title),
		Description:  strings.TrimSpace(description),
		Goal:         goal,
		Status:       CampaignDraft,
	}
	if campaign.Slug == "" {
		// Titles with no ASCII letters or digits slugify to nothing; fall
		// back to the id so the slug stays unique and non-empty.
		campaign.Slug = strings.ToLower(campaign.ID)
	}
	err := s.store.CreateCampaign(ctx, &campaign)
	if errors.Is(err, ErrConflict) {
		// Slug collision with an existing campaign; retry once with an id
		// suffix to keep the slug unique.
		campaign.Slug = campaign.Slug + "-" + strings.ToLower(campaign.ID[len(campaign.ID)-6:])
		err = s.store.CreateCampaign(ctx, &campaign)
	}
	if err != nil {
		return Campaign{}, err
	}
	return campaign, nil
}

func (s *Service) GetCampaign(ctx context.Context, id string) (Campaign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Campaign{}, fmt.Errorf("%w: campaign id is required", ErrInvalidInput)
	}
	return s.store.GetCampaign(ctx, id)
}

func (s *Service) GetCampaignBySlug(ctx context.Context, slug string) (Campaign, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Campaign{}, fmt.Errorf("%w: campaign slug is required", ErrInvalidInput)
	}
	return s.store.GetCampaignBySlug(ctx, slug)
}

func (s *Service) ListCampaigns(ctx context.Context, status string, limit int) ([]Campaign, error) {
	status = strings.TrimSpace(strings.ToLower(status))
	if status != "" && !validCampaignStatus(status) {
		return nil, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
	}
	return s.store.ListCampaigns(ctx, status, clampLimit(limit))
}

func (s *Service) UpdateCampaign(ctx context.Context, id string, upd CampaignUpdate) (Campaign, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Campaign{}, fmt.Errorf("%w: campaign id is required", ErrInvalidInput)
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" {
			return Campaign{}, fmt.Errorf("%w: campaign title is required", ErrInvalidInput)
		}
		upd.Title = &title
	}
	if upd.Goal != nil && *upd.Goal <= 0 {
		return Campaign{}, fmt.Errorf("%w: goal must be positive", ErrInvalidInput)
	}
	if upd.Status != nil {
		status := strings.TrimSpace(strings.ToLower(*upd.Status))
		if !validCampaignStatus(status) {
			return Campaign{}, fmt.Errorf("%w: unsupported status %s", ErrInvalidInput, status)
		}
		upd.Status = &status
	}
	return s.store.UpdateCampaign(ctx, id, upd)
}

func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: campaign id is required", ErrInvalidInput)
	}
	return s.store.DeleteCampaign(ctx, id)
}

// Donations ------------------------------------------------------------

func (s *Service) CreateDonation(ctx context.Context, donorID, campaignID string, amount int64, donorEmail, message string) (Donation, error) {
	donorID = strings.TrimSpace(donorID)
	campaignID = strings.TrimSpace(campaignID)
	if donorID == "" || campaignID == "" {
		return Donation{}, fmt.Errorf("%w: donor id and campaign id are required", ErrInvalidInput)
	}
	if amount <= 0 {
		return Donation{}, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	campaign, err := s.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return Donation{}, err
	}
	if campaign.Status != CampaignActive {
		return Donation{}, fmt.Errorf("%w: campaign is not accepting donations", ErrConflict)
	}

	donation := Donation{
		ID:         ids.New(),
		CampaignID: campaignID,
		DonorID:    donorID,
		Amount:     amount,
		Status:     DonationPending,
		DonorEmail: strings.TrimSpace(strings.ToLower(donorEmail)),
		Message:    strings.TrimSpace(message),
	}
	if err := s.store.CreateDonation(ctx, &donation); err != nil {
		return Donation{}, err
	}
	return donation, nil
}

func (s *Service) GetDonation(ctx context.Context, id string) (Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donation{}, fmt.Errorf("%w: donation id is required", ErrInvalidInput)
	}
	return s.store.GetDonation(ctx, id)
}

func (s *Service) ListDonationsByCampaign(ctx context.Context, campaignID string, limit int) ([]Donation, error) {
	campaignID = strings.TrimSpace(campaignID)
	if campaignID == "" {
		return nil, fmt.Errorf("%w: campaign id is required", ErrInvalidInput)
	}
	return s.store.ListDonationsByCampaign(ctx, campaignID, clampLimit(limit))
}

func (s *Service) ListDonationsByDonor(ctx context.Context, donorID string, limit int) ([]Donation, error) {
	donorID = strings.TrimSpace(donorID)
	if donorID == "" {
		return nil, fmt.Errorf("%w: donor id is required", ErrInvalidInput)
	}
	return s.store.ListDonationsByDonor(ctx, donorID, clampLimit(limit))
}

// DonorStats returns a donor's giving totals.
func (s *Service) DonorStats(ctx context.Context, donorID string) (DonorStats, error) {
	donorID = strings.TrimSpace(donorID)
	if donorID == "" {
		return DonorStats{}, fmt.Errorf("%w: donor id is required", ErrInvalidInput)
	}
	return s.store.DonorStats(ctx, donorID)
}

// CompleteDonation marks a pending donation as completed and credits the
// campaign's raised amount in the same transaction.
func (s *Service) CompleteDonation(ctx context.Context, id string) (Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donation{}, fmt.Errorf("%w: donation id is required", ErrInvalidInput)
	}
	return s.store.SettleDonation(ctx, id, DonationCompleted)
}

// RefundDonation reverses a completed donation and debits the campaign.
func (s *Service) RefundDonation(ctx context.Context, id string) (Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Donation{}, fmt.Errorf("%w: donation id is required", ErrInvalidInput)
	}
	return s.store.SettleDonation(ctx, id, DonationRefunded)
}

// Organizations --------------------------------------------------------

func (s *Service) CreateOrganization(ctx context.Context, ownerID, name, description, website string) (Organization, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Organization{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Organization{}, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
	}
	org := Organization{
		ID:          ids.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: strings.TrimSpace(description),
		Website:     strings.TrimSpace(website),
	}
	if err := s.store.CreateOrganization(ctx, &org); err != nil {
		return Organization{}, err
	}
	return org, nil
}

func (s *Service) GetOrganization(ctx context.Context, id string) (Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Organization{}, fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	return s.store.GetOrganization(ctx, id)
}

func (s *Service) ListOrganizations(ctx context.Context, limit int) ([]Organization, error) {
	return s.store.ListOrganizations(ctx, clampLimit(limit))
}

func (s *Service) UpdateOrganization(ctx context.Context, id string, upd OrganizationUpdate) (Organization, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Organization{}, fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Organization{}, fmt.Errorf("%w: organization name is required", ErrInvalidInput)
		}
		upd.Name = &name
	}
	return s.store.UpdateOrganization(ctx, id, upd)
}

func (s *Service) DeleteOrganization(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: organization id is required", ErrInvalidInput)
	}
	return s.store.DeleteOrganization(ctx, id)
}

// helpers --------------------------------------------------------------

func validCampaignStatus(status string) bool {
	switch status {
	case CampaignDraft, CampaignActive, CampaignPaused, CampaignCompleted:
		return true
	}
	return false
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultListLimit
	}
	return limit
}
