package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

var packageNameRe = regexp.MustCompile(`^[a-z0-9]([_.-]?[a-z0-9]+)*/[a-z0-9](([_.]|-{1,2})?[a-z0-9]+)*$`)

// ParseRequirement splits a require argument into a package name and a
// constraint. Accepted forms are "name", "name:constraint", "name=constraint"
// and "name constraint". The constraint is empty when none was given.
func ParseRequirement(arg string) (name, constraint string, err error) {
	arg = strings.TrimSpace(arg)
	name = arg
	if i := strings.IndexAny(arg, ":= "); i >= 0 {
		name, constraint = arg[:i], strings.TrimSpace(arg[i+1:])
		if constraint == "" {
			return "", "", zerr.With(ErrInvalidRequirement, "requirement", arg)
		}
	}

	name = NormalizeName(name)
	if !packageNameRe.MatchString(name) && !IsPlatformPackage(name) {
		return "", "", zerr.With(ErrInvalidRequirement, "requirement", arg)
	}
	if constraint != "" {
		if _, err := ParseConstraint(constraint); err != nil {
			return "", "", zerr.With(err, "requirement", arg)
		}
	}
	return name, constraint, nil
}
