package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVendorRecordClone_KeepsEmptyPhotos(t *testing.T) {
	v := VendorRecord{ID: "a", Status: VendorApproved, BusinessPhotos: []string{}}

	c := v.Clone()
	require.NotNil(t, c.BusinessPhotos)
	assert.Empty(t, c.BusinessPhotos)
	assert.Equal(t, v, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"business_photos":[]`)
}

func TestVendorRecordClone_SharesNothing(t *testing.T) {
	cost := 250.0
	v := VendorRecord{ID: "a", ServiceCost: &cost, BusinessPhotos: []string{"p1.jpg"}}

	c := v.Clone()
	c.BusinessPhotos[0] = "changed.jpg"
	*c.ServiceCost = 1

	assert.Equal(t, "p1.jpg", v.BusinessPhotos[0])
	assert.Equal(t, 250.0, *v.ServiceCost)
}

func TestVendorRecordClone_NilPhotosStayNil(t *testing.T) {
	assert.Nil(t, VendorRecord{ID: "a"}.Clone().BusinessPhotos)
}

func TestCloneVendors(t *testing.T) {
	assert.Nil(t, CloneVendors(nil))

	in := []VendorRecord{{ID: "a", BusinessPhotos: []string{}}, {ID: "b"}}
	assert.Equal(t, in, CloneVendors(in))
}
