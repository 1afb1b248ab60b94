package handler

import (
	"strings"
	"time"

	"github.com/workerhub/jobboard/internal/core/domain"
	"github.com/workerhub/jobboard/internal/core/ports"
)

const dateLayout = "2006-01-02"

// --- Form → Service input ---

// toListingInput assumes f has passed validation.
func toListingInput(f listingForm) ports.ListingInput {
	start, _ := time.Parse(dateLayout, f.StartDate)
	return ports.ListingInput{
		Title:           strings.TrimSpace(f.Title),
		Description:     strings.TrimSpace(f.Description),
		WorkType:        domain.WorkType(f.WorkType),
		BuildingType:    domain.BuildingType(f.BuildingType),
		Floors:          f.Floors,
		AreaSqFt:        f.AreaSqFt,
		City:            strings.TrimSpace(f.City),
		Area:            strings.TrimSpace(f.Area),
		Landmark:        strings.TrimSpace(f.Landmark),
		WorkersRequired: f.WorkersRequired,
		SkillLevel:      domain.SkillLevel(f.SkillLevel),
		WagePerDay:      f.WagePerDay,
		PaymentType:     domain.PaymentType(f.PaymentType),
		FoodProvided:    formBool(f.FoodProvided),
		StartDate:       start.UTC(),
		DurationDays:    f.DurationDays,
	}
}

// toListingPatch keeps only the fields the owner filled in.
func toListingPatch(f listingPatchForm) domain.ListingPatch {
	var p domain.ListingPatch
	p.Title = optString(f.Title)
	p.Description = optString(f.Description)
	p.City = optString(f.City)
	p.Area = optString(f.Area)
	p.Landmark = optString(f.Landmark)
	if formBool(f.ClearLandmark) {
		none := ""
		p.Landmark = &none
	}
	p.Floors = optInt(f.Floors)
	p.AreaSqFt = optInt(f.AreaSqFt)
	p.WorkersRequired = optInt(f.WorkersRequired)
	p.WagePerDay = optInt(f.WagePerDay)
	p.DurationDays = optInt(f.DurationDays)
	if f.WorkType != "" {
		v := domain.WorkType(f.WorkType)
		p.WorkType = &v
	}
	if f.BuildingType != "" {
		v := domain.BuildingType(f.BuildingType)
		p.BuildingType = &v
	}
	if f.SkillLevel != "" {
		v := domain.SkillLevel(f.SkillLevel)
		p.SkillLevel = &v
	}
	if f.PaymentType != "" {
		v := domain.PaymentType(f.PaymentType)
		p.PaymentType = &v
	}
	if f.FoodProvided != "" {
		v := formBool(f.FoodProvided)
		p.FoodProvided = &v
	}
	if f.IsActive != "" {
		v := formBool(f.IsActive)
		p.IsActive = &v
	}
	if t, err := time.Parse(dateLayout, f.StartDate); err == nil {
		t = t.UTC()
		p.StartDate = &t
	}
	return p
}

// --- Domain → form (edit page prefill) ---

func fromListing(l *domain.Listing) listingForm {
	return listingForm{
		Title:           l.Title,
		Description:     l.Description,
		WorkType:        string(l.WorkType),
		BuildingType:    string(l.BuildingType),
		Floors:          l.Floors,
		AreaSqFt:        l.AreaSqFt,
		City:            l.City,
		Area:            l.Area,
		Landmark:        l.Landmark,
		WorkersRequired: l.WorkersRequired,
		SkillLevel:      string(l.SkillLevel),
		WagePerDay:      l.WagePerDay,
		PaymentType:     string(l.PaymentType),
		FoodProvided:    boolString(l.FoodProvided),
		StartDate:       l.StartDate.Format(dateLayout),
		DurationDays:    l.DurationDays,
	}
}

// patchFormAsListing echoes a rejected edit back into the page.
func patchFormAsListing(f listingPatchForm) listingForm {
	return listingForm{
		Title:           f.Title,
		Description:     f.Description,
		WorkType:        f.WorkType,
		BuildingType:    f.BuildingType,
		Floors:          f.Floors,
		AreaSqFt:        f.AreaSqFt,
		City:            f.City,
		Area:            f.Area,
		Landmark:        f.Landmark,
		WorkersRequired: f.WorkersRequired,
		SkillLevel:      f.SkillLevel,
		WagePerDay:      f.WagePerDay,
		PaymentType:     f.PaymentType,
		FoodProvided:    f.FoodProvided,
		StartDate:       f.StartDate,
		DurationDays:    f.DurationDays,
	}
}

func formBool(s string) bool {
	return s == "true" || s == "on"
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
