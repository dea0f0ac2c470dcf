package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/LuizHUlmi/profiles-sub000/pkg/dateutil"
)

// Profile is the client record that anchors every projection in calendar time
type Profile struct {
	ID             string `yaml:"id" json:"id"`
	Name           string `yaml:"name" json:"name"`
	BirthDate      string `yaml:"birth_date,omitempty" json:"birth_date,omitempty"` // ISO date, optional
	LifeExpectancy int    `yaml:"life_expectancy,omitempty" json:"life_expectancy,omitempty"`
}

// HasBirthDate reports whether the profile carries a usable birth date
func (p Profile) HasBirthDate() bool {
	_, ok := dateutil.ParseDate(p.BirthDate)
	return ok
}

// Age returns the profile age at the given date, 0 when the birth date is missing
func (p Profile) Age(asOf time.Time) int {
	return dateutil.AgeFromString(p.BirthDate, asOf)
}

// Relationship classifies a family member relative to the profile owner
type Relationship string

const (
	RelationshipSpouse    Relationship = "spouse"
	RelationshipChild     Relationship = "child"
	RelationshipDependent Relationship = "dependent"
	RelationshipOther     Relationship = "other"
)

// ParseRelationship normalizes a relationship label
func ParseRelationship(s string) (Relationship, error) {
	switch Relationship(strings.ToLower(strings.TrimSpace(s))) {
	case RelationshipSpouse:
		return RelationshipSpouse, nil
	case RelationshipChild:
		return RelationshipChild, nil
	case RelationshipDependent:
		return RelationshipDependent, nil
	case RelationshipOther, "":
		return RelationshipOther, nil
	default:
		return "", fmt.Errorf("unknown relationship %q", s)
	}
}

// FamilyMember is a spouse or dependent linked to a profile
type FamilyMember struct {
	Name         string       `yaml:"name" json:"name"`
	Relationship Relationship `yaml:"relationship" json:"relationship"`
	BirthDate    string       `yaml:"birth_date,omitempty" json:"birth_date,omitempty"`
}

// Age returns the member's age at the given date
func (f FamilyMember) Age(asOf time.Time) int {
	return dateutil.AgeFromString(f.BirthDate, asOf)
}

func (r *Relationship) UnmarshalText(text []byte) error {
	parsed, err := ParseRelationship(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
