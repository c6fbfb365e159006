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
	steps    int     // Number of kinematic steps
	stepSize float64 // Distance travelled per step
)

// kinematicCmd moves a kinematic sphere down onto a static one.
var kinematicCmd = &cobra.Command{
	Use:   "kinematic",
	Short: "Move a kinematic sphere through a static sphere",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		m := collision.NewDiscreteManager(cfg)
		logEvents(m)

		identity := []actor.Transform{actor.NewTransform()}
		if err := m.AddCollisionObject("static_link", 0, []actor.ShapeInterface{&actor.Sphere{Radius: 0.5}}, identity); err != nil {
			logrus.Fatal(err)
		}
		if err := m.AddCollisionObject("kinematic_link", 0, []actor.ShapeInterface{&actor.Sphere{Radius: 0.25}}, identity); err != nil {
			logrus.Fatal(err)
		}
		m.SetActiveCollisionObjects([]string{"kinematic_link"})

		for i := 0; i < steps; i++ {
			z := 0.7 - float64(i)*stepSize
			m.SetCollisionObjectsTransform("kinematic_link", actor.NewTransformFromPosition(mgl64.Vec3{0, 0, z}))

			results := m.ContactTest(collision.ContactRequest{Type: collision.ContactTestClosest})
			fmt.Printf("step %d, z=%.2f, %d contact(s)\n", i, z, results.Count())
			if results.Count() > 0 {
				fmt.Println(collision.FormatResults(results))
			}
		}
	},
}

func init() {
	kinematicCmd.Flags().IntVar(&steps, "steps", 10, "Number of steps")
	kinematicCmd.Flags().Float64Var(&stepSize, "step", 0.1, "Distance moved down per step")
}
