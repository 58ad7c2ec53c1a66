package features_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/okian/diabcheck/internal/domain/features"
	. "github.com/smartystreets/goconvey/convey"
)

func sequence(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i + 1)
	}
	return out
}

func TestColumns(t *testing.T) {
	Convey("Given the feature columns", t, func() {
		cols := features.Columns()

		Convey("Then there are exactly 23 in the documented order", func() {
			So(len(cols), ShouldEqual, 23)
			So(cols[0], ShouldEqual, "general_health")
			So(cols[5], ShouldEqual, "physical_activity_150min")
			So(cols[13], ShouldEqual, "age")
			So(cols[17], ShouldEqual, "income_group")
			So(cols[21], ShouldEqual, "heavy_drinking")
			So(cols[22], ShouldEqual, "difficulty_walking")
		})

		Convey("And mutating the returned slice does not leak", func() {
			cols[0] = "changed"
			So(features.Columns()[0], ShouldEqual, "general_health")
		})
	})
}

func TestAssemble(t *testing.T) {
	Convey("Given 23 answers", t, func() {
		answers := sequence(23)

		Convey("When assembling", func() {
			row, err := features.Assemble(answers)

			Convey("Then the row keeps position order", func() {
				So(err, ShouldBeNil)
				So(row.Len(), ShouldEqual, 23)
				So(row.Values(), ShouldResemble, answers)
				v, ok := row.Get("bmi")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 16.0)
				So(row.At(0), ShouldEqual, 1.0)
			})

			Convey("And it is unaffected by later changes to the input", func() {
				answers[0] = 99
				So(row.At(0), ShouldEqual, 1.0)
			})

			Convey("And assembling again yields an identical row", func() {
				again, err := features.Assemble(sequence(23))
				So(err, ShouldBeNil)
				So(again, ShouldResemble, row)
			})
		})

		Convey("When asking for an unknown column", func() {
			row, _ := features.Assemble(answers)
			_, ok := row.Get("weight")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given a wrong number of answers", t, func() {
		for _, n := range []int{0, 22, 24} {
			_, err := features.Assemble(sequence(n))
			So(errors.Is(err, features.ErrSchemaMismatch), ShouldBeTrue)
		}
	})
}

func TestRowMarshalJSON(t *testing.T) {
	Convey("Given an assembled row", t, func() {
		row, err := features.Assemble(sequence(23))
		So(err, ShouldBeNil)

		Convey("When marshaling to JSON", func() {
			data, err := json.Marshal(row)
			So(err, ShouldBeNil)

			Convey("Then keys appear in column order", func() {
				s := string(data)
				last := -1
				for _, c := range features.Columns() {
					pos := strings.Index(s, `"`+c+`"`)
					So(pos, ShouldBeGreaterThan, last)
					last = pos
				}
			})

			Convey("And values decode back by name", func() {
				var m map[string]float64
				So(json.Unmarshal(data, &m), ShouldBeNil)
				So(len(m), ShouldEqual, 23)
				So(m["general_health"], ShouldEqual, 1.0)
				So(m["difficulty_walking"], ShouldEqual, 23.0)
			})
		})
	})
}
