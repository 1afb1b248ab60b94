package handler

import (
	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

// listingForm is the add-listing form. Numbers left empty bind as 0 and fail
// "required", mirroring a missing field.
type listingForm struct {
	Title           string `form:"job[title]"           validate:"required,min=5"`
	Description     string `form:"job[description]"     validate:"required,min=20"`
	WorkType        string `form:"job[workType]"        validate:"required,worktype"`
	BuildingType    string `form:"job[buildingType]"    validate:"required,buildingtype"`
	Floors          int    `form:"job[floors]"          validate:"required,min=1"`
	AreaSqFt        int    `form:"job[areaSqFt]"        validate:"required,min=100"`
	City            string `form:"job[city]"            validate:"required"`
	Area            string `form:"job[area]"            validate:"required"`
	Landmark        string `form:"job[landmark]"`
	WorkersRequired int    `form:"job[workersRequired]" validate:"required,min=1"`
	SkillLevel      string `form:"job[skillLevel]"      validate:"required,skilllevel"`
	WagePerDay      int    `form:"job[wagePerDay]"      validate:"required,min=100"`
	PaymentType     string `form:"job[paymentType]"     validate:"required,paymenttype"`
	FoodProvided    string `form:"job[foodProvided]"    validate:"omitempty,oneof=true false on"`
	StartDate       string `form:"job[startDate]"       validate:"required,datetime=2006-01-02"`
	DurationDays    int    `form:"job[durationDays]"    validate:"required,min=1"`
}

// listingPatchForm is the edit form: every field is optional.
type listingPatchForm struct {
	Title           string `form:"job[title]"           validate:"omitempty,min=5"`
	Description     string `form:"job[description]"     validate:"omitempty,min=20"`
	WorkType        string `form:"job[workType]"        validate:"omitempty,worktype"`
	BuildingType    string `form:"job[buildingType]"    validate:"omitempty,buildingtype"`
	Floors          int    `form:"job[floors]"          validate:"omitempty,min=1"`
	AreaSqFt        int    `form:"job[areaSqFt]"        validate:"omitempty,min=100"`
	City            string `form:"job[city]"`
	Area            string `form:"job[area]"`
	Landmark        string `form:"job[landmark]"`
	WorkersRequired int    `form:"job[workersRequired]" validate:"omitempty,min=1"`
	SkillLevel      string `form:"job[skillLevel]"      validate:"omitempty,skilllevel"`
	WagePerDay      int    `form:"job[wagePerDay]"      validate:"omitempty,min=100"`
	PaymentType     string `form:"job[paymentType]"     validate:"omitempty,paymenttype"`
	FoodProvided    string `form:"job[foodProvided]"    validate:"omitempty,oneof=true false on"`
	StartDate       string `form:"job[startDate]"       validate:"omitempty,datetime=2006-01-02"`
	DurationDays    int    `form:"job[durationDays]"    validate:"omitempty,min=1"`
	IsActive        string `form:"job[isActive]"        validate:"omitempty,oneof=true false"`
	ClearLandmark   string `form:"job[clearLandmark]"   validate:"omitempty,oneof=true on"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type signupForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

// --- Page data ---

type indexData struct {
	Listings   []*domain.Listing
	City       string
	WorkType   string
	ActiveOnly bool
}

type showData struct {
	*ports.ListingDetail
	IsOwner  bool
	CanApply bool
	Applied  domain.ApplicationStatus
}

type editData struct {
	ID     string
	Form   listingForm
	Active bool
}

type applicantsData struct {
	*ports.ApplicantsView
	IsOwner bool
}
