package services

import (
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// wkbToGeoJSON converts stored WKB bytes into a GeoJSON string for the API
// surface. An empty or undecodable payload yields an empty string; section
// geometry is informative, never load-bearing.
func wkbToGeoJSON(wkbBytes []byte) string {
	if len(wkbBytes) == 0 {
		return ""
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return ""
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return ""
	}
	return string(b)
}
