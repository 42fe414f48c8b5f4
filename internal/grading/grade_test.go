package grading_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/grade-server/internal/grading"
)

var _ = Describe("Classify", func() {
	DescribeTable("boundaries",
		func(score int, expected grading.Grade) {
			Expect(grading.Classify(score)).To(Equal(expected))
		},
		Entry("100 is A", 100, grading.GradeA),
		Entry("80 is A", 80, grading.GradeA),
		Entry("79 is B", 79, grading.GradeB),
		Entry("60 is B", 60, grading.GradeB),
		Entry("59 is C", 59, grading.GradeC),
		Entry("40 is C", 40, grading.GradeC),
		Entry("39 is Fail", 39, grading.GradeFail),
		Entry("0 is Fail", 0, grading.GradeFail),
		Entry("101 is Fail", 101, grading.GradeFail),
		Entry("negative is Fail", -5, grading.GradeFail),
	)

	It("should grade every score in 80..100 as A", func() {
		for s := 80; s <= 100; s++ {
			Expect(grading.Classify(s)).To(Equal(grading.GradeA), "score %d", s)
		}
	})

	It("should grade every score in 60..79 as B", func() {
		for s := 60; s < 80; s++ {
			Expect(grading.Classify(s)).To(Equal(grading.GradeB), "score %d", s)
		}
	})

	It("should grade every score in 40..59 as C", func() {
		for s := 40; s < 60; s++ {
			Expect(grading.Classify(s)).To(Equal(grading.GradeC), "score %d", s)
		}
	})

	It("should fail scores outside 40..100", func() {
		for s := -200; s < 40; s++ {
			Expect(grading.Classify(s)).To(Equal(grading.GradeFail), "score %d", s)
		}
		for s := 101; s <= 500; s++ {
			Expect(grading.Classify(s)).To(Equal(grading.GradeFail), "score %d", s)
		}
	})
})

var _ = Describe("Evaluate", func() {
	It("should pass the name through unchanged", func() {
		result := grading.Evaluate(grading.ScoreRequest{Name: `O"Brien <x>`, Score: 85})
		Expect(result.Name).To(Equal(`O"Brien <x>`))
		Expect(result.Grade).To(Equal(grading.GradeA))
	})

	It("should be deterministic", func() {
		req := grading.ScoreRequest{Name: "ALIAH", Score: 70}
		Expect(grading.Evaluate(req)).To(Equal(grading.Evaluate(req)))
	})
})
