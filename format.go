package collision

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatResults prints a table of the contacts, one row per contact ordered by link pair.
func FormatResults(m ContactResultMap) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Link A", "Link B", "Shapes", "Distance", "Point A", "Point B", "Normal"})
	for i, r := range FlattenResults(m) {
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i+1),
			r.LinkNames[0],
			r.LinkNames[1],
			fmt.Sprintf("%d/%d", r.ShapeIDs[0], r.ShapeIDs[1]),
			fmt.Sprintf("%.5f", r.Distance),
			formatVec3(r.NearestPoints[0]),
			formatVec3(r.NearestPoints[1]),
			formatVec3(r.Normal),
		})
	}
	return t.Render()
}

func formatVec3(v mgl64.Vec3) string {
	return fmt.Sprintf("X:%.4f, Y:%.4f, Z:%.4f", v.X(), v.Y(), v.Z())
}
