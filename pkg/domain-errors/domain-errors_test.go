package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorMessage() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeNotFound, Message: "Certificate not found"}
		s.Equal("Certificate not found", err.Error())
	})

	s.Run("falls back to code", func() {
		err := &Error{Code: CodeConfigurationMissing}
		s.Equal("configuration_missing", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	a := &Error{Code: CodeUpstreamFailure, Message: "signer down"}
	b := &Error{Code: CodeUpstreamFailure, Message: "converter down"}
	s.True(errors.Is(a, b))
	s.False(errors.Is(a, &Error{Code: CodeInternal}))
	s.False(a.Is(errors.New("upstream_failure")))
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves an existing code", func() {
		inner := New(CodeNotFoundForReference, "Certificate not found for refId")
		wrapped := Wrap(inner, CodeInternal, "lookup failed")
		s.True(HasCode(wrapped, CodeNotFoundForReference))
		s.Equal("lookup failed", wrapped.Error())
	})

	s.Run("applies the given code to plain errors", func() {
		root := errors.New("connection refused")
		wrapped := Wrap(root, CodeUpstreamFailure, "registry unavailable")
		s.True(HasCode(wrapped, CodeUpstreamFailure))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeForbidden, CodeOf(fmt.Errorf("auth: %w", New(CodeForbidden, "bad token"))))
	s.Equal(CodeInternal, CodeOf(errors.New("boom")))
	s.Equal(CodeInternal, CodeOf(nil))
	s.False(HasCode(nil, CodeNotFound))
}
