// Package donate holds the platform's domain model and services: campaigns
// run by missionaries, donations made by donors, the organizations behind
// missions, and user profiles.
package donate

import "time"

// Campaign statuses.
const (
	CampaignDraft     = "draft"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
)

// Donation statuses.
const (
	DonationPending   = "pending"
	DonationCompleted = "completed"
	DonationFailed    = "failed"
	DonationRefunded  = "refunded"
)

// User statuses.
const (
	UserActive   = "active"
	UserDisabled = "disabled"
)

// User is an authenticatable account. Role holds the raw claim string; it is
// parsed into the closed enumeration at the session boundary.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public face of a user. Its id equals the user id.
type Profile struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Bio       string    `json:"bio,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Campaign is a fundraising campaign owned by a missionary. Amounts are in
// minor currency units.
type Campaign struct {
	ID           string     `json:"id"`
	MissionaryID string     `json:"missionary_id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Description  string     `json:"description"`
	Goal         int64      `json:"goal"`
	Raised       int64      `json:"raised"`
	Status       string     `json:"status"`
	ImageURL     string     `json:"image_url,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Donation is one gift from a donor to a campaign. It is created pending and
// settled by an internal status transition; payment gateway integration is
// deliberately absent.
type Donation struct {
	ID         string    `json:"id"`
	CampaignID string    `json:"campaign_id"`
	DonorID    string    `json:"donor_id"`
	Amount     int64     `json:"amount"`
	Status     string    `json:"status"`
	DonorEmail string    `json:"donor_email,omitempty"`
	Message    string    `json:"message,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Organization is the institution behind one or more missions.
type Organization struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DonorStats aggregates a donor's giving history for the dashboard. Only
// completed donations count toward the total.
type DonorStats struct {
	TotalDonated       int64 `json:"total_donated"`
	DonationCount      int   `json:"donation_count"`
	CampaignsSupported int   `json:"campaigns_supported"`
}

// CampaignUpdate carries optional field changes for a campaign.
type CampaignUpdate struct {
	Title       *string
	Description *string
	Goal        *int64
	Status      *string
	ImageURL    *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProfileUpdate carries optional field changes for a profile.
type ProfileUpdate struct {
	FullName  *string
	Bio       *string
	City      *string
	Country   *string
	AvatarURL *string
}

// OrganizationUpdate carries optional field changes for an organization.
type OrganizationUpdate struct {
	Name        *string
	Description *string
	Website     *string
}
