package domain

import "time"

// DefaultItemIcon is attached to amenities and view types created without
// an uploaded icon.
const DefaultItemIcon = "https://www.shutterstock.com/image-vector/fridge-freezer-refrigerator-condenser-icon-260nw-573132496.jpg"

// ItemKind names one of the simple catalog lists that share a single form.
type ItemKind string

const (
	ItemAmenity  ItemKind = "amenity"
	ItemBadge    ItemKind = "badge"
	ItemViewType ItemKind = "view_type"
)

// Endpoint returns the platform path for the kind.
func (k ItemKind) Endpoint() string {
	switch k {
	case ItemAmenity:
		return "/amenity"
	case ItemBadge:
		return "/badges"
	case ItemViewType:
		return "/viewTypes"
	default:
		return ""
	}
}

// IsBadgeType reports whether items of this kind carry descriptions.
func (k ItemKind) IsBadgeType() bool {
	return k == ItemBadge
}

// Item is a row of a simple catalog list.
type Item struct {
	ID                  string  `json:"id"`
	Title               string  `json:"title"`
	TitleInArabic       string  `json:"titleInArabic"`
	HasCustomizedIcon   bool    `json:"hasCustomizedIcon"`
	IconTitle           *string `json:"iconTitle"`
	IconPhotoID         string  `json:"iconPhotoId"`
	Status              string  `json:"status,omitempty"`
	Description         string  `json:"description,omitempty"`
	DescriptionInArabic string  `json:"descriptionInArabic,omitempty"`
}

// CreateItemInput is the shared create form. Descriptions are only
// required for badges; see ValidateFor.
type CreateItemInput struct {
	Name                string `json:"name" validate:"required,max=200"`
	NameInArabic        string `json:"nameInArabic" validate:"required,max=200"`
	Description         string `json:"description,omitempty" validate:"max=1000"`
	DescriptionInArabic string `json:"descriptionInArabic,omitempty" validate:"max=1000"`
}

// BadgeItemInput is CreateItemInput with the badge-only fields required.
type BadgeItemInput struct {
	Name                string `json:"name" validate:"required,max=200"`
	NameInArabic        string `json:"nameInArabic" validate:"required,max=200"`
	Description         string `json:"description" validate:"required,max=1000"`
	DescriptionInArabic string `json:"descriptionInArabic" validate:"required,max=1000"`
}

// ItemPayload is what the platform expects when an item is created.
type ItemPayload struct {
	Title               string `json:"title"`
	TitleInArabic       string `json:"titleInArabic"`
	HasCustomizedIcon   bool   `json:"hasCustomizedIcon,omitempty"`
	IconPhotoID         string `json:"iconPhotoId,omitempty"`
	Description         string `json:"description,omitempty"`
	DescriptionInArabic string `json:"descriptionInArabic,omitempty"`
}

// Payload maps the form onto the platform body for kind k. Badges carry
// their descriptions; every other kind gets the default icon instead.
func (in CreateItemInput) Payload(k ItemKind) ItemPayload {
	p := ItemPayload{Title: in.Name, TitleInArabic: in.NameInArabic}
	if k.IsBadgeType() {
		p.Description = in.Description
		p.DescriptionInArabic = in.DescriptionInArabic
		return p
	}
	p.HasCustomizedIcon = true
	p.IconPhotoID = DefaultItemIcon
	return p
}

// Badge returns the input in its stricter badge form.
func (in CreateItemInput) Badge() BadgeItemInput {
	return BadgeItemInput(in)
}

// Chalet is a listed property.
type Chalet struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	TitleInArabic        string   `json:"titleInArabic,omitempty"`
	City                 string   `json:"city"`
	Latitude             float64  `json:"latitude"`
	Longitude            float64  `json:"longitude"`
	PerHourCost          float64  `json:"perHourCost"`
	PerNightCost         float64  `json:"perNightCost"`
	MaxNoOfBeds          int      `json:"maxNoOfBeds"`
	NoOfBaths            int      `json:"noOfBaths"`
	NoOfBedrooms         int      `json:"noOfBedrooms"`
	MaxNoOfGuests        int      `json:"maxNoOfGuests"`
	MinNoOfGuests        int      `json:"minNoOfGuests"`
	IsEntireHomeAvailabe bool     `json:"isEntireHomeAvailabe"`
	Amenities            []string `json:"amenities"`
	ViewTypes            []string `json:"viewTypes"`
}

// ChaletInput is the create-chalet form.
type ChaletInput struct {
	Title               string `json:"title" validate:"required"`
	TitleInArabic       string `json:"titleInArabic" validate:"required"`
	Description         string `json:"description" validate:"required"`
	DescriptionInArabic string `json:"descriptionInArabic" validate:"required"`

	NoOfBedrooms          int    `json:"noOfBedrooms" validate:"min=0"`
	NoOfBedroomsInArabic  string `json:"noOfBedroomsInArabic"`
	MaxNoOfBeds           int    `json:"maxNoOfBeds" validate:"min=0"`
	MaxNoOfBedsInArabic   string `json:"maxNoOfBedsInArabic"`
	NoOfBaths             int    `json:"noOfBaths" validate:"min=0"`
	NoOfBathsInArabic     string `json:"noOfBathsInArabic"`
	MaxNoOfGuests         int    `json:"maxNoOfGuests" validate:"min=0,gtefield=MinNoOfGuests"`
	MinNoOfGuests         int    `json:"minNoOfGuests" validate:"min=0"`
	MaxNoOfGuestsInArabic string `json:"maxNoOfGuestsInArabic"`
	MinNoOfGuestsInArabic string `json:"minNoOfGuestsInArabic"`

	PerHourCost   float64 `json:"perHourCost" validate:"min=0"`
	PerNightCost  float64 `json:"perNightCost" validate:"min=0"`
	WeekendCost   float64 `json:"weekendCost" validate:"min=0"`
	WeekDaysCost  float64 `json:"weekDaysCost" validate:"min=0"`
	FullWeekCost  float64 `json:"fullWeekCost" validate:"min=0"`
	FullMonthCost float64 `json:"fullMonthCost" validate:"min=0"`

	PhotoID         string   `json:"photoId"`
	GalleryPhotoIDs []string `json:"galleryPhotoIds"`
	HostName        string   `json:"hostName"`
	HostPhotoID     string   `json:"hostPhotoId"`

	PinTitle         string `json:"pinTitle"`
	PinTitleInArabic string `json:"pinTitleInArabic"`
	Street1          string `json:"street1"`
	Street1InArabic  string `json:"street1InArabic"`
	Street2          string `json:"street2"`
	Street2InArabic  string `json:"street2InArabic"`
	City             string `json:"city"`
	CityInArabic     string `json:"cityInArabic"`
	State            string `json:"state"`
	StateInArabic    string `json:"stateInArabic"`
	Country          string `json:"country"`
	CountryInArabic  string `json:"countryInArabic"`
	PostalCode       string `json:"postalCode"`

	BadgeID              string   `json:"badgeId"`
	Amenities            []string `json:"amenities"`
	IsEntireHomeAvailabe bool     `json:"isEntireHomeAvailabe"`
	TrustedByPlatform    bool     `json:"trustedByPlatform"`
	IsFamilyFriendlyOnly bool     `json:"isFamilyFriendlyOnly"`
	Latitude             float64  `json:"latitude" validate:"latitude"`
	Longitude            float64  `json:"longitude" validate:"longitude"`
}

// Room belongs to a chalet.
type Room struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	NoOfKingBedrooms   string    `json:"noOfKingBedrooms"`
	NoOfSingleBedrooms string    `json:"noOfSingleBedrooms"`
	NoOfDoubleBedrooms string    `json:"noOfDoubleBedrooms"`
	ChaletID           string    `json:"chaletId"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// RoomInput is the add-room form.
type RoomInput struct {
	Title                      string `json:"title" validate:"required"`
	TitleInArabic              string `json:"titleInArabic" validate:"required"`
	NoOfKingBedrooms           int    `json:"noOfKingBedrooms" validate:"min=0"`
	NoOfKingBedroomsInArabic   string `json:"noOfKingBedroomsInArabic"`
	NoOfSingleBedrooms         int    `json:"noOfSingleBedrooms" validate:"min=0"`
	NoOfSingleBedroomsInArabic string `json:"noOfSingleBedroomsInArabic"`
	NoOfDoubleBedrooms         int    `json:"noOfDoubleBedrooms" validate:"min=0"`
	NoOfDoubleBedroomsInArabic string `json:"noOfDoubleBedroomsInArabic"`
	ChaletID                   string `json:"chaletId" validate:"required"`
}

// SubscriptionInput is the chalet subscription plan form. The misspelled
// durationVallueInArabic key is what the platform accepts.
type SubscriptionInput struct {
	Title                   string `json:"title" validate:"required"`
	TitleInArabic           string `json:"titleInArabic" validate:"required"`
	DurationUnit            string `json:"durationUnit" validate:"required"`
	DurationUnitInArabic    string `json:"durationUnitInArabic" validate:"required"`
	DurationValue           string `json:"durationValue" validate:"required"`
	DurationValueInArabic   string `json:"durationVallueInArabic" validate:"required"`
	Type                    string `json:"type" validate:"required"`
	TypeInArabic            string `json:"typeInArabic" validate:"required"`
	Price                   string `json:"price" validate:"required"`
	PriceInArabic           string `json:"priceInArabic" validate:"required"`
	PriceUnit               string `json:"priceUnit" validate:"required"`
	PriceUnitInArabic       string `json:"priceUnitInArabic" validate:"required"`
	MinimumTime             string `json:"minimumTime" validate:"required"`
	MinimumTimeInArabic     string `json:"minimumTimeInArabic" validate:"required"`
	MinimumTimeUnit         string `json:"minimumTimeUnit" validate:"required"`
	MinimumTimeUnitInArabic string `json:"minimumTimeUnitInArabic" validate:"required"`
	SpecialTags             string `json:"specialTags" validate:"required"`
	SpecialTagsInArabic     string `json:"specialTagsInArabic" validate:"required"`
	ForMembersOnly          bool   `json:"forMembersOnly,omitempty"`
	IsSplitPaymentAvailable bool   `json:"isSplitPaymentAvailable,omitempty"`
	ChaletID                string `json:"chaletId" validate:"required"`
}

// Customization is an add-on guests can book with a chalet.
type Customization struct {
	ID                      string    `json:"id"`
	Title                   string    `json:"title"`
	TitleInArabic           string    `json:"titleInArabic"`
	CostUnit                string    `json:"costUnit"`
	CostUnitInArabic        string    `json:"costUnitInArabic"`
	CostPerNight            float64   `json:"costPerNight"`
	CostPerNightInArabic    string    `json:"costPerNightInArabic"`
	IconTitle               string    `json:"iconTitle"`
	IconPhotoID             string    `json:"iconPhotoId"`
	Is24HourNotice          bool      `json:"is24HourNotice"`
	CustomizationCategoryID string    `json:"customizationCategoryId"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

// CustomizationInput is the create-customization form.
type CustomizationInput struct {
	Title                   string  `json:"title" validate:"required"`
	TitleInArabic           string  `json:"titleInArabic" validate:"required"`
	CostUnit                string  `json:"costUnit" validate:"required"`
	CostUnitInArabic        string  `json:"costUnitInArabic" validate:"required"`
	CostPerNight            float64 `json:"costPerNight" validate:"min=0"`
	CostPerNightInArabic    string  `json:"costPerNightInArabic"`
	HasCustomizedIcon       bool    `json:"hasCustomizedIcon,omitempty"`
	IconPhotoID             string  `json:"iconPhotoId" validate:"required"`
	Is24HourNotice          bool    `json:"is24HourNotice"`
	CustomizationCategoryID string  `json:"customizationCategoryId" validate:"required"`
}

// CustomizationCategory groups customizations.
type CustomizationCategory struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	TitleInArabic  string          `json:"titleInArabic,omitempty"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// CategoryInput is the create-category form.
type CategoryInput struct {
	Title         string `json:"title" validate:"required"`
	TitleInArabic string `json:"titleInArabic" validate:"required"`
}

// TierBenefit is a loyalty programme perk.
type TierBenefit struct {
	ID                   string  `json:"id"`
	Title                string  `json:"title"`
	Description          string  `json:"description"`
	IconURL              string  `json:"iconURL"`
	IsPlatinum           bool    `json:"isPlatinum"`
	IsGold               bool    `json:"isGold"`
	IsDiamond            bool    `json:"isDiamond"`
	PlatinumPointsPerKwd float64 `json:"platinumPointsPerKwd"`
	GoldPointsPerKwd     float64 `json:"goldPointsPerKwd"`
	DiamondPointsPerKwd  float64 `json:"diamondPointsPerKwd"`
	PlatinumMinPoints    float64 `json:"platinumMinPoints"`
	PlatinumMaxPoints    float64 `json:"platinumMaxPoints"`
	GoldMinPoints        float64 `json:"goldMinPoints"`
	GoldMaxPoints        float64 `json:"goldMaxPoints"`
	DiamondMinPoints     float64 `json:"diamondMinPoints"`
	DiamondMaxPoints     float64 `json:"diamondMaxPoints"`
}

// TierBenefitInput is the create-benefit form.
type TierBenefitInput struct {
	Title                string  `json:"title" validate:"required"`
	TitleInArabic        string  `json:"titleInArabic" validate:"required"`
	Description          string  `json:"description" validate:"required"`
	DescriptionInArabic  string  `json:"descriptionInArabic" validate:"required"`
	IconURL              string  `json:"iconURL" validate:"required,url"`
	IsPlatinum           bool    `json:"isPlatinum,omitempty"`
	IsGold               bool    `json:"isGold,omitempty"`
	IsDiamond            bool    `json:"isDiamond,omitempty"`
	PlatinumPointsPerKwd float64 `json:"platinumPointsPerKwd" validate:"min=0"`
	GoldPointsPerKwd     float64 `json:"goldPointsPerKwd" validate:"min=0"`
	DiamondPointsPerKwd  float64 `json:"diamondPointsPerKwd" validate:"min=0"`
	PlatinumMinPoints    float64 `json:"platinumMinPoints" validate:"min=0"`
	PlatinumMaxPoints    float64 `json:"platinumMaxPoints" validate:"min=0,gtefield=PlatinumMinPoints"`
	GoldMinPoints        float64 `json:"goldMinPoints" validate:"min=0"`
	GoldMaxPoints        float64 `json:"goldMaxPoints" validate:"min=0,gtefield=GoldMinPoints"`
	DiamondMinPoints     float64 `json:"diamondMinPoints" validate:"min=0"`
	DiamondMaxPoints     float64 `json:"diamondMaxPoints" validate:"min=0,gtefield=DiamondMinPoints"`
}
