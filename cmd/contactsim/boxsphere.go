package main

import (
	"fmt"

	"github.com/akmonengine/collision"
	"github.com/akmonengine/collision/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	offset          float64 // Sphere position along X
	contactDistance float64 // Contact distance threshold
	testType        string  // Contact test type
	contactLimit    int     // Contacts per pair for the limited test
)

var contactTestTypes = map[string]collision.ContactTestType{
	"first":   collision.ContactTestFirst,
	"closest": collision.ContactTestClosest,
	"all":     collision.ContactTestAll,
	"limited": collision.ContactTestLimited,
}

// boxSphereCmd tests a unit box and a sphere, next to a disabled thin box.
var boxSphereCmd = &cobra.Command{
	Use:   "boxsphere",
	Short: "Contact test between a box and a sphere",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		requestType, ok := contactTestTypes[testType]
		if !ok {
			logrus.Fatalf("Unknown contact test type: %s", testType)
		}

		m := collision.NewDiscreteManager(cfg)
		logEvents(m)

		identity := []actor.Transform{actor.NewTransform()}
		objects := []struct {
			name    string
			shape   actor.ShapeInterface
			enabled bool
		}{
			{"box_link", actor.NewBox(1, 1, 1), true},
			{"thin_box_link", actor.NewBox(0.1, 1, 1), false},
			{"sphere_link", &actor.Sphere{Radius: 0.25}, true},
		}
		for _, o := range objects {
			if err := m.AddCollisionObject(o.name, 0, []actor.ShapeInterface{o.shape}, identity, o.enabled); err != nil {
				logrus.Fatal(err)
			}
		}

		m.SetActiveCollisionObjects([]string{"box_link", "sphere_link"})
		m.SetContactDistanceThreshold(contactDistance)
		m.SetCollisionObjectsTransform("sphere_link", actor.NewTransformFromPosition(mgl64.Vec3{offset, 0, 0}))

		results := m.ContactTest(collision.ContactRequest{Type: requestType, ContactLimit: contactLimit})
		fmt.Println(collision.FormatResults(results))
	},
}

func init() {
	boxSphereCmd.Flags().Float64Var(&offset, "offset", 0.2, "Sphere position along X")
	boxSphereCmd.Flags().Float64Var(&contactDistance, "distance", 0.1, "Contact distance threshold")
	boxSphereCmd.Flags().StringVar(&testType, "type", "closest", "Contact test type (first, closest, all, limited)")
	boxSphereCmd.Flags().IntVar(&contactLimit, "limit", 0, "Contacts per pair for the limited test")
}
