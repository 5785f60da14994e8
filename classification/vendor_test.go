package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVendor(t *testing.T) {
	tests := []struct {
		name  string
		vname string
		taxID string
		want  VendorClass
	}{
		{"legal suffix", "Acme Plumbing LLC", "", ClassEntity},
		{"dotted legal suffix", "Acme Plumbing, L.L.C.", "", ClassEntity},
		{"two token person", "John Smith", "", ClassPersonVendor},
		{"three token person", "Mary Ann Evans", "", ClassPersonVendor},
		{"single token", "Riverside", "", ClassAmbiguous},
		{"four tokens", "Blue Sky Over Town", "", ClassAmbiguous},
		{"formatted tax id", "XYZ Holdings", "12-3456789", ClassEntity},
		{"bare nine digit tax id", "John Smith", "123456789", ClassEntity},
		{"short tax id ignored", "John Smith", "12345", ClassPersonVendor},
		{"keyword", "Riverside Therapy", "", ClassEntity},
		{"keyword with many tokens", "North Shore Physical Therapy Partners Of Ohio", "", ClassEntity},
		{"empty name", "", "12-3456789", ClassAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyVendor(tt.vname, tt.taxID))
		})
	}
}
