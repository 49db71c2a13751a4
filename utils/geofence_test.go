package utils

import "testing"

// A unit square around the origin.
const squareGeoJSON = `{"type":"Polygon","coordinates":[[[-1,-1],[1,-1],[1,1],[-1,1],[-1,-1]]]}`

func TestParseServiceArea(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"bare polygon", squareGeoJSON, false},
		{"feature wrapping polygon", `{"type":"Feature","properties":{},"geometry":` + squareGeoJSON + `}`, false},
		{"point geometry", `{"type":"Point","coordinates":[1,1]}`, true},
		{"degenerate polygon", `{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`, true},
		{"garbage", `not json`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseServiceArea([]byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseServiceArea() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServiceAreaContains(t *testing.T) {
	poly, err := ParseServiceArea([]byte(squareGeoJSON))
	if err != nil {
		t.Fatalf("ParseServiceArea() error = %v", err)
	}

	tests := []struct {
		name     string
		lat, lng float64
		want     bool
	}{
		{"center", 0, 0, true},
		{"near edge inside", 0.9, 0.9, true},
		{"outside east", 0, 2, false},
		{"outside north", 2, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ServiceAreaContains(poly, tt.lat, tt.lng); got != tt.want {
				t.Errorf("ServiceAreaContains(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestValidateCoordinate(t *testing.T) {
	if err := ValidateCoordinate(8.48, -13.23); err != nil {
		t.Errorf("ValidateCoordinate(Freetown) error = %v", err)
	}
	if err := ValidateCoordinate(91, 0); err == nil {
		t.Error("ValidateCoordinate() accepted latitude 91")
	}
	if err := ValidateCoordinate(0, -181); err == nil {
		t.Error("ValidateCoordinate() accepted longitude -181")
	}
}
