package models

import "time"

type VendorStatus string

const (
	VendorPending  VendorStatus = "pending"
	VendorApproved VendorStatus = "approved"
	VendorRejected VendorStatus = "rejected"
)

// VendorRecord is one service provider's public listing as stored in the
// vendor_profiles collection. Optional text fields are empty when absent.
type VendorRecord struct {
	ID                  string       `bson:"id" json:"id"`
	UserID              string       `bson:"user_id" json:"user_id,omitempty"`
	BusinessName        string       `bson:"business_name,omitempty" json:"business_name,omitempty"`
	ServiceType         string       `bson:"service_type,omitempty" json:"service_type,omitempty"`
	BusinessAddress     string       `bson:"business_address,omitempty" json:"business_address,omitempty"`
	ContactNumber       string       `bson:"contact_number,omitempty" json:"contact_number,omitempty"`
	ServiceCost         *float64     `bson:"service_cost,omitempty" json:"service_cost,omitempty"`
	BusinessPhotos      []string     `bson:"business_photos" json:"business_photos"`
	Status              VendorStatus `bson:"status" json:"status"`
	LocationCoordinates string       `bson:"location_coordinates,omitempty" json:"location_coordinates,omitempty"`
	CreatedAt           time.Time    `bson:"created_at" json:"created_at,omitzero"`
	UpdatedAt           time.Time    `bson:"updated_at" json:"updated_at,omitzero"`
}

func (v VendorRecord) IsApproved() bool {
	return v.Status == VendorApproved
}

// Clone returns a copy that shares no slices or pointers with v.
func (v VendorRecord) Clone() VendorRecord {
	c := v
	if v.ServiceCost != nil {
		cost := *v.ServiceCost
		c.ServiceCost = &cost
	}
	if v.BusinessPhotos != nil {
		c.BusinessPhotos = append(make([]string, 0, len(v.BusinessPhotos)), v.BusinessPhotos...)
	}
	return c
}

// CloneVendors copies a vendor list element by element.
func CloneVendors(vendors []VendorRecord) []VendorRecord {
	if vendors == nil {
		return nil
	}
	out := make([]VendorRecord, len(vendors))
	for i, v := range vendors {
		out[i] = v.Clone()
	}
	return out
}
