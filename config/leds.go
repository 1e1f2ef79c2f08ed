package config

import (
	"errors"
	"fmt"

	"golang.org/x/image/math/f32"

	"github.com/gogpu/retrodesk/led"
)

// LEDs describes the status lights.
type LEDs struct {
	Positions []f32.Vec3 `yaml:"positions"`
	Base      f32.Vec3   `yaml:"base"`
	Template  string     `yaml:"template"`
	Scale     float32    `yaml:"scale"`
}

func defaultLEDs() LEDs {
	return LEDs{
		Positions: []f32.Vec3{
			{-0.41, 1.1, -2.21},
			{0.59, 1.32, -2.22},
			{1.77, 1.91, -1.17},
			{2.44, 1.1, -0.79},
			{4.87, 3.8, -0.1},
			{1.93, 3.8, -3.69},
			{-2.35, 3.8, -3.48},
			{-4.71, 4.59, -1.81},
			{-3.03, 2.85, 1.19},
			{-1.21, 1.73, -1.49},
		},
		Base:     led.DefaultBase,
		Template: led.DefaultTemplate,
		Scale:    led.DefaultScale,
	}
}

func (l LEDs) validate() error {
	if l.Template == "" {
		return errors.New("no template")
	}
	if !(l.Scale > 0) {
		return fmt.Errorf("scale %v", l.Scale)
	}
	return nil
}

// Field builds the light field.
func (l LEDs) Field() (*led.Field, error) {
	return led.New(l.Positions,
		led.WithBase(l.Base),
		led.WithTemplate(l.Template),
		led.WithScale(l.Scale),
	)
}
