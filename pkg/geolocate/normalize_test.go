package geolocate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"100 Main Street":           "100 MAIN ST",
		"100  main   street":        "100 MAIN ST",
		"45 Ocean Parkway":          "45 OCEAN PKWY",
		"12 West Court":             "12 W CT",
		"8 Maple Ave.":              "8 MAPLE AVE",
		"8 Maple Avenue, Brooklyn":  "8 MAPLE AVE BROOKLYN",
		"  22 North Terrace Drive ": "22 N TER DR",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeKey(input), "input=%q", input)
	}
}

func TestNormalizeKey_Empty(t *testing.T) {
	assert.Empty(t, NormalizeKey(""))
	assert.Empty(t, NormalizeKey("   "))
}

func TestDisplayAddress(t *testing.T) {
	assert.Equal(t, "100 Main Street", DisplayAddress("100  MAIN   STREET"))
	assert.Equal(t, "8 Maple Avenue", DisplayAddress("8 maple avenue"))
}
