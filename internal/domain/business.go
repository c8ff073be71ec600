package domain

import "time"

// BusinessPhone splits a contact number from its dialing prefix.
type BusinessPhone struct {
	CountryCode string `json:"countryCode" dynamodbav:"country_code"`
	Number      string `json:"number" dynamodbav:"number"`
}

type BusinessSocialMedia struct {
	Instagram string `json:"businessInstagram,omitempty" dynamodbav:"instagram"`
	Facebook  string `json:"businessFacebook,omitempty" dynamodbav:"facebook"`
	Twitter   string `json:"businessTwitter,omitempty" dynamodbav:"twitter"`
	Linkedin  string `json:"businessLinkedin,omitempty" dynamodbav:"linkedin"`
	Youtube   string `json:"businessYoutube,omitempty" dynamodbav:"youtube"`
	Pinterest string `json:"businessPinterest,omitempty" dynamodbav:"pinterest"`
}

// BusinessProfile is the persisted business record. The three image lists hold
// storage keys produced by the upload pipeline, never raw URLs.
type BusinessProfile struct {
	BusinessID              string               `json:"id" dynamodbav:"business_id"`
	OwnerID                 string               `json:"businessBy" dynamodbav:"owner_id"`
	Name                    string               `json:"businessName" dynamodbav:"name"`
	Type                    string               `json:"businessType,omitempty" dynamodbav:"type"`
	Description             string               `json:"businessDescription,omitempty" dynamodbav:"description"`
	Address                 string               `json:"businessAddress,omitempty" dynamodbav:"address"`
	City                    string               `json:"businessCity,omitempty" dynamodbav:"city"`
	ExteriorImages          []string             `json:"businessExteriorImage" dynamodbav:"exterior_images"`
	InteriorImages          []string             `json:"businessInteriorImage" dynamodbav:"interior_images"`
	ProductImages           []string             `json:"businessProductImage" dynamodbav:"product_images"`
	ProductDescription      string               `json:"businessProductDescription,omitempty" dynamodbav:"product_description"`
	Website                 string               `json:"businessWebsite,omitempty" dynamodbav:"website"`
	Phone                   *BusinessPhone       `json:"businessPhone,omitempty" dynamodbav:"phone"`
	Email                   string               `json:"businessEmail,omitempty" dynamodbav:"email"`
	SocialMedia             *BusinessSocialMedia `json:"businessSocialMedia,omitempty" dynamodbav:"social_media"`
	EstablishedDate         string               `json:"establishedDate,omitempty" dynamodbav:"established_date"` // YYYY-MM-DD
	Categories              []string             `json:"businessCategories,omitempty" dynamodbav:"categories"`
	Tags                    []string             `json:"businessTags,omitempty" dynamodbav:"tags"`
	OperatingHours          string               `json:"operatingHours,omitempty" dynamodbav:"operating_hours"`
	Amenities               string               `json:"amenities,omitempty" dynamodbav:"amenities"`
	GoogleBusinessProfile   string               `json:"googleBusinessProfile,omitempty" dynamodbav:"google_business_profile"`
	OnlineOrderingPlatforms []string             `json:"onlineOrderingPlatforms,omitempty" dynamodbav:"online_ordering_platforms"`
	Revenue                 string               `json:"revenue,omitempty" dynamodbav:"revenue"`
	CreatedAt               time.Time            `json:"created" dynamodbav:"created_at"`
	UpdatedAt               time.Time            `json:"updated" dynamodbav:"updated_at"`
}

// CreateBusinessRequest carries the finalized setup form. Field names follow
// the client's wire format; the image lists are storage keys already written
// through the upload pipeline.
type CreateBusinessRequest struct {
	BusinessName            string               `json:"businessName" validate:"required"`
	BusinessType            string               `json:"businessType"`
	Description             string               `json:"businessDescription"`
	Address                 string               `json:"businessAddress"`
	City                    string               `json:"businessCity"`
	ExteriorImages          []string             `json:"businessExteriorImage"`
	InteriorImages          []string             `json:"businessInteriorImage"`
	ProductImages           []string             `json:"businessProductImage"`
	ProductDescription      string               `json:"businessProductDescription"`
	Website                 string               `json:"businessWebsite" validate:"omitempty,url"`
	Phone                   *BusinessPhone       `json:"businessPhone"`
	Email                   string               `json:"businessEmail" validate:"omitempty,email"`
	SocialMedia             *BusinessSocialMedia `json:"businessSocialMedia"`
	EstablishedDate         string               `json:"establishedDate" validate:"omitempty,datetime=2006-01-02"`
	Categories              []string             `json:"businessCategories"`
	Tags                    []string             `json:"businessTags"`
	OperatingHours          string               `json:"operatingHours"`
	Amenities               string               `json:"amenities"`
	GoogleBusinessProfile   string               `json:"googleBusinessProfile"`
	OnlineOrderingPlatforms []string             `json:"onlineOrderingPlatforms"`
	Revenue                 string               `json:"revenue"`
}
