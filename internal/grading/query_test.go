package grading_test

import (
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/grade-server/internal/grading"
)

var _ = Describe("ParseQuery", func() {
	expectKind := func(err error, kind error) {
		Expect(err).To(HaveOccurred())
		Expect(errors.Cause(err)).To(Equal(kind))
		Expect(errors.Is(err, kind)).To(BeTrue())

		var qe *grading.QueryError
		Expect(errors.As(err, &qe)).To(BeTrue())
		Expect(qe.Kind).To(Equal(kind))
	}

	Context("with an empty query", func() {
		It("should report missing parameters in both modes", func() {
			for _, mode := range []grading.QueryMode{grading.QueryModeKey, grading.QueryModePositional} {
				_, err := grading.ParseQuery("", mode)
				expectKind(err, grading.ErrMissingParameters)
				Expect(err.Error()).To(Equal("Missing parameters"))
			}
		})
	})

	Context("in key mode", func() {
		const mode = grading.QueryModeKey

		It("should parse name and score", func() {
			req, err := grading.ParseQuery("name=ALIAH&score=70", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "ALIAH", Score: 70}))
		})

		It("should accept parameters in any order", func() {
			req, err := grading.ParseQuery("score=85&name=JOHN", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "JOHN", Score: 85}))
		})

		It("should ignore unknown parameters", func() {
			req, err := grading.ParseQuery("lang=en&name=MIKE&score=30", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Name).To(Equal("MIKE"))
			Expect(req.Score).To(Equal(30))
		})

		It("should decode escaped values", func() {
			req, err := grading.ParseQuery("name=Mary+Ann%20Lee&score=%2B60", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Name).To(Equal("Mary Ann Lee"))
			Expect(req.Score).To(Equal(60))
		})

		It("should accept negative scores", func() {
			req, err := grading.ParseQuery("name=X&score=-12", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Score).To(Equal(-12))
		})

		It("should reject a missing name", func() {
			_, err := grading.ParseQuery("score=70", mode)
			expectKind(err, grading.ErrMalformedQuery)
			Expect(err.Error()).To(ContainSubstring(`"name"`))
		})

		It("should reject a missing score", func() {
			_, err := grading.ParseQuery("name=ALIAH", mode)
			expectKind(err, grading.ErrMalformedQuery)
			Expect(err.Error()).To(ContainSubstring(`"score"`))
		})

		It("should reject an undecodable query", func() {
			_, err := grading.ParseQuery("name=%zz&score=1", mode)
			expectKind(err, grading.ErrMalformedQuery)
		})

		DescribeTable("invalid scores",
			func(query string) {
				_, err := grading.ParseQuery(query, mode)
				expectKind(err, grading.ErrInvalidScore)
				Expect(err.Error()).To(HavePrefix("Invalid score: "))
			},
			Entry("letters", "name=A&score=abc"),
			Entry("decimal", "name=A&score=70.5"),
			Entry("empty", "name=A&score="),
			Entry("overflow", "name=A&score=99999999999"),
		)
	})

	Context("in positional mode", func() {
		const mode = grading.QueryModePositional

		It("should parse name then score", func() {
			req, err := grading.ParseQuery("name=ALIAH&score=70", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "ALIAH", Score: 70}))
		})

		It("should ignore keys and rely on position", func() {
			req, err := grading.ParseQuery("student=JOHN&points=85", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "JOHN", Score: 85}))
		})

		It("should read swapped parameters as an invalid score", func() {
			_, err := grading.ParseQuery("score=70&name=ALIAH", mode)
			expectKind(err, grading.ErrInvalidScore)
		})

		It("should take the segment after the first '='", func() {
			req, err := grading.ParseQuery("name=A=B&score=50=1", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "A", Score: 50}))
		})

		It("should reject a single parameter", func() {
			_, err := grading.ParseQuery("name=ALIAH", mode)
			expectKind(err, grading.ErrMalformedQuery)
		})

		It("should reject a parameter without a value", func() {
			_, err := grading.ParseQuery("name&score=70", mode)
			expectKind(err, grading.ErrMalformedQuery)
			Expect(err.Error()).To(ContainSubstring("parameter 1"))
		})

		DescribeTable("empty values",
			func(query, detail string) {
				_, err := grading.ParseQuery(query, mode)
				expectKind(err, grading.ErrMalformedQuery)
				Expect(err.Error()).To(Equal("Malformed query: " + detail))
			},
			Entry("empty name", "name=&score=70", "parameter 1 has no value"),
			Entry("empty score", "name=A&score=", "parameter 2 has no value"),
			Entry("only separators", "name==&score=70", "parameter 1 has no value"),
		)

		It("should keep an empty segment that is followed by a value", func() {
			req, err := grading.ParseQuery("name==A&score=70", mode)
			Expect(err).NotTo(HaveOccurred())
			Expect(req).To(Equal(grading.ScoreRequest{Name: "", Score: 70}))
		})

		It("should reject a non-numeric score", func() {
			_, err := grading.ParseQuery("name=ALIAH&score=seventy", mode)
			expectKind(err, grading.ErrInvalidScore)
		})
	})
})
