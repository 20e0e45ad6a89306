package pace_test

import (
	"testing"

	"pacebar/pace"
	"pacebar/pixmap"

	. "github.com/smartystreets/goconvey/convey"
)

func TestScore(t *testing.T) {
	Convey("Given the pacing score function", t, func() {
		Convey("When almost nothing remains", func() {
			Convey("Then the score floors at zero", func() {
				So(pace.Score(2, 50), ShouldEqual, 0.0)
				So(pace.Score(3, 100), ShouldEqual, 0.0)
				So(pace.Score(0, 0), ShouldEqual, 0.0)
			})
		})

		Convey("When nearly everything remains", func() {
			Convey("Then the score caps at one regardless of time", func() {
				So(pace.Score(95, 10), ShouldEqual, 1.0)
				So(pace.Score(92, 1), ShouldEqual, 1.0)
				So(pace.Score(100, 100), ShouldEqual, 1.0)
			})
		})

		Convey("When the reset is imminent", func() {
			Convey("Then leftover budget is forgiven", func() {
				So(pace.Score(30, 2), ShouldAlmostEqual, 30.0/35.0, 1e-12)
				So(pace.Score(80, 0), ShouldEqual, 1.0)
				So(pace.Score(10, 5), ShouldAlmostEqual, 10.0/35.0, 1e-12)
			})
		})

		Convey("When budget and time both run mid-window", func() {
			Convey("Then the score tracks remaining over time", func() {
				So(pace.Score(50, 50), ShouldAlmostEqual, 1.0/1.3, 1e-12)
				So(pace.Score(65, 100), ShouldAlmostEqual, 0.5, 1e-12)
				So(pace.Score(20, 80), ShouldAlmostEqual, 0.25/1.3, 1e-12)
			})
		})

		Convey("When inputs are out of range", func() {
			Convey("Then they clamp instead of misbehaving", func() {
				So(pace.Score(-20, 50), ShouldEqual, 0.0)
				So(pace.Score(250, 50), ShouldEqual, 1.0)
				So(pace.Score(50, -10), ShouldEqual, 1.0) // time clamps to 0, imminent-reset cap
				So(pace.Score(50, 9999), ShouldAlmostEqual, 0.5/1.3, 1e-12)
			})
		})

		Convey("When budget shrinks at fixed time remaining", func() {
			Convey("Then the score never increases", func() {
				prev := 2.0
				for r := 100.0; r >= 0; r -= 1 {
					s := pace.Score(r, 40)
					So(s, ShouldBeLessThanOrEqualTo, prev)
					So(s, ShouldBeBetweenOrEqual, 0.0, 1.0)
					prev = s
				}
			})
		})
	})
}

func TestColor(t *testing.T) {
	Convey("Given the score color ramp", t, func() {
		Convey("When the score is zero", func() {
			Convey("Then the color is the red anchor", func() {
				So(pace.Color(0), ShouldResemble, pixmap.RGBA{R: 224, G: 49, B: 49, A: 230})
			})
		})

		Convey("When the score is one", func() {
			Convey("Then the color is the green anchor", func() {
				So(pace.Color(1), ShouldResemble, pixmap.RGBA{R: 49, G: 224, B: 49, A: 230})
			})
		})

		Convey("When the score is halfway", func() {
			Convey("Then the color passes through yellow", func() {
				So(pace.Color(0.5), ShouldResemble, pixmap.RGBA{R: 224, G: 224, B: 49, A: 230})
			})
		})

		Convey("When the score is out of range", func() {
			Convey("Then it clamps to the anchors", func() {
				So(pace.Color(-3), ShouldResemble, pace.Color(0))
				So(pace.Color(42), ShouldResemble, pace.Color(1))
			})
		})

		Convey("When sweeping the whole range", func() {
			Convey("Then alpha stays fixed and green never decreases", func() {
				prevG := -1
				for s := 0.0; s <= 1.0; s += 0.01 {
					c := pace.Color(s)
					So(c.A, ShouldEqual, 230)
					So(int(c.G), ShouldBeGreaterThanOrEqualTo, prevG)
					prevG = int(c.G)
				}
			})
		})
	})
}

func TestBand(t *testing.T) {
	Convey("Given the band thresholds", t, func() {
		cases := []struct {
			score float64
			want  pace.Band
		}{
			{1.0, pace.Comfortable},
			{0.8, pace.Comfortable},
			{0.79, pace.Watch},
			{0.5, pace.Watch},
			{0.49, pace.Slow},
			{0.25, pace.Slow},
			{0.24, pace.Danger},
			{0.0, pace.Danger},
		}

		Convey("When bucketing boundary scores", func() {
			for _, c := range cases {
				So(pace.BandFor(c.score), ShouldEqual, c.want)
			}
		})

		Convey("When comparing bands", func() {
			Convey("Then healthier bands order above worse ones", func() {
				So(pace.Danger, ShouldBeLessThan, pace.Slow)
				So(pace.Slow, ShouldBeLessThan, pace.Watch)
				So(pace.Watch, ShouldBeLessThan, pace.Comfortable)
			})
		})

		Convey("When rendering bands", func() {
			Convey("Then every band has a distinct dot and hint", func() {
				dots := map[string]bool{}
				hints := map[string]bool{}
				for _, b := range []pace.Band{pace.Danger, pace.Slow, pace.Watch, pace.Comfortable} {
					dots[b.Dot()] = true
					hints[b.Hint()] = true
				}
				So(len(dots), ShouldEqual, 4)
				So(len(hints), ShouldEqual, 4)
				So(pace.Comfortable.Dot(), ShouldEqual, "🟢")
				So(pace.Danger.Dot(), ShouldEqual, "🔴")
				So(pace.Comfortable.Hint(), ShouldEqual, "↳ Comfortable pace")
			})
		})
	})
}
