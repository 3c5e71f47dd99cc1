package domain

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// Stability ranks how stable a release is. Lower values are more stable.
type Stability int

const (
	// StabilityStable marks a final release.
	StabilityStable Stability = 0
	// StabilityRC marks a release candidate.
	StabilityRC Stability = 5
	// StabilityBeta marks a beta release.
	StabilityBeta Stability = 10
	// StabilityAlpha marks an alpha release.
	StabilityAlpha Stability = 15
	// StabilityDev marks a development version or branch.
	StabilityDev Stability = 20
)

// ParseStability maps a stability name to its rank.
func ParseStability(name string) (Stability, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "stable":
		return StabilityStable, true
	case "rc":
		return StabilityRC, true
	case "beta":
		return StabilityBeta, true
	case "alpha":
		return StabilityAlpha, true
	case "dev", "internal":
		return StabilityDev, true
	default:
		return 0, false
	}
}

func (s Stability) String() string {
	switch s {
	case StabilityStable:
		return "stable"
	case StabilityRC:
		return "RC"
	case StabilityBeta:
		return "beta"
	case StabilityAlpha:
		return "alpha"
	default:
		return "dev"
	}
}

var (
	numericBranchRe = regexp.MustCompile(`^v?(\d+)(?:\.(\d+|x|\*))?(?:\.(\d+|x|\*))?[.-]?x?-dev$`)
	modifierRe      = regexp.MustCompile(`^(v?\d+(?:\.\d+){0,2})[._-]?(alpha|a|beta|b|rc|patch|pl|p|dev)[._-]?(\d*)$`)
	fourPartRe      = regexp.MustCompile(`^(v?\d+\.\d+\.\d+)\.(\d+)(.*)$`)
	stabilityFlagRe = regexp.MustCompile(`(?i)@(stable|rc|beta|alpha|dev|internal)$`)
	orSplitRe       = regexp.MustCompile(`\s*\|\|?\s*`)
	andSplitRe      = regexp.MustCompile(`\s*,\s*|\s+`)
	twoPartTildeRe  = regexp.MustCompile(`^~\s*v?(\d+)\.(\d+)$`)
	operatorRe      = regexp.MustCompile(`^(==|=)\s*`)
)

const branchPlaceholder = "9999999"

// Version is a resolved package version. Development branches ("dev-main")
// have no semantic version and sort below every numbered release.
type Version struct {
	pretty     string
	normalized string
	sv         *semver.Version
	branch     string
	stability  Stability
}

// ParseVersion parses a package version string.
func ParseVersion(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Version{}, zerr.With(ErrInvalidVersion, "version", raw)
	}
	lower := strings.ToLower(s)

	if strings.HasPrefix(lower, "dev-") {
		name := s[len("dev-"):]
		return Version{
			pretty:     s,
			normalized: "dev-" + name,
			branch:     name,
			stability:  StabilityDev,
		}, nil
	}

	if m := numericBranchRe.FindStringSubmatch(lower); m != nil {
		parts := []string{m[1], branchPart(m[2]), branchPart(m[3])}
		sv, err := semver.NewVersion(strings.Join(parts, ".") + "-dev")
		if err != nil {
			return Version{}, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", raw)
		}
		return Version{pretty: s, normalized: sv.String(), sv: sv, stability: StabilityDev}, nil
	}

	candidate := s
	if m := fourPartRe.FindStringSubmatch(candidate); m != nil && m[2] == "0" {
		candidate = m[1] + m[3]
	}
	if m := modifierRe.FindStringSubmatch(strings.ToLower(candidate)); m != nil {
		candidate = m[1] + normalizeModifier(m[2], m[3])
	}

	sv, err := semver.NewVersion(candidate)
	if err != nil {
		return Version{}, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", raw)
	}

	return Version{
		pretty:     s,
		normalized: sv.String(),
		sv:         sv,
		stability:  stabilityOfPrerelease(sv.Prerelease()),
	}, nil
}

// MustParseVersion is ParseVersion for literals known to be valid.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

func branchPart(p string) string {
	if p == "" || p == "x" || p == "*" {
		return branchPlaceholder
	}
	return p
}

func normalizeModifier(modifier, number string) string {
	switch modifier {
	case "a", "alpha":
		modifier = "alpha"
	case "b", "beta":
		modifier = "beta"
	case "rc":
		modifier = "rc"
	case "p", "pl", "patch":
		if number == "" {
			return "+patch"
		}
		return "+patch" + number
	}
	if number == "" {
		return "-" + modifier
	}
	return "-" + modifier + "." + number
}

func stabilityOfPrerelease(pre string) Stability {
	if pre == "" {
		return StabilityStable
	}
	head := strings.ToLower(strings.SplitN(pre, ".", 2)[0])
	switch {
	case strings.HasPrefix(head, "rc"):
		return StabilityRC
	case strings.HasPrefix(head, "beta"), head == "b":
		return StabilityBeta
	case strings.HasPrefix(head, "alpha"), head == "a":
		return StabilityAlpha
	default:
		return StabilityDev
	}
}

// String returns the version as it was written.
func (v Version) String() string { return v.pretty }

// Normalized returns the canonical form used for equality.
func (v Version) Normalized() string { return v.normalized }

// Stability returns the release stability.
func (v Version) Stability() Stability { return v.stability }

// IsBranch reports whether v is a named development branch.
func (v Version) IsBranch() bool { return v.sv == nil && v.branch != "" }

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool { return v.normalized == "" }

// Equal compares normalized forms.
func (v Version) Equal(o Version) bool { return v.normalized == o.normalized }

// Compare orders versions. Named branches sort below numbered releases.
func (v Version) Compare(o Version) int {
	switch {
	case v.sv != nil && o.sv != nil:
		return v.sv.Compare(o.sv)
	case v.sv == nil && o.sv == nil:
		return strings.Compare(v.branch, o.branch)
	case v.sv == nil:
		return -1
	default:
		return 1
	}
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.pretty), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Constraint is an opaque, matchable version constraint.
type Constraint struct {
	pretty       string
	any          bool
	exact        string
	branch       string
	sc           *semver.Constraints
	stability    Stability
	hasStability bool
	alias        *Version
}

// AnyConstraint matches every version.
func AnyConstraint() Constraint {
	return Constraint{pretty: "*", any: true}
}

// DevConstraint is the symbolic always-current constraint used between monorepo members.
func DevConstraint() Constraint {
	return Constraint{pretty: "@dev", any: true, stability: StabilityDev, hasStability: true}
}

// ExactConstraint matches only v.
func ExactConstraint(v Version) Constraint {
	return Constraint{pretty: "==" + v.String(), exact: v.Normalized()}
}

// ParseConstraint parses a constraint string such as "^1.2", "~1.0 || ^2.0",
// "dev-main", "1.2.3@beta" or "dev-main as 1.0.0".
func ParseConstraint(raw string) (Constraint, error) {
	pretty := strings.TrimSpace(raw)
	s := pretty
	if s == "" {
		s = "*"
	}

	var alias *Version
	if left, right, ok := strings.Cut(s, " as "); ok {
		av, err := ParseVersion(right)
		if err != nil {
			return Constraint{}, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "constraint", raw)
		}
		alias = &av
		s = strings.TrimSpace(left)
	}

	c := Constraint{pretty: pretty, alias: alias}
	if pretty == "" {
		c.pretty = "*"
	}

	if m := stabilityFlagRe.FindStringSubmatchIndex(s); m != nil {
		flag, _ := ParseStability(s[m[2]:m[3]])
		c.stability = flag
		c.hasStability = true
		s = strings.TrimSpace(s[:m[0]])
	}

	switch {
	case s == "" || s == "*" || s == "self.version":
		c.any = true
		return c, nil
	case strings.HasPrefix(strings.ToLower(s), "dev-"):
		name, _, _ := strings.Cut(s[len("dev-"):], "#")
		c.branch = name
		return c, nil
	}

	if exact, ok := parseExact(s); ok {
		c.exact = exact.Normalized()
		return c, nil
	}

	sc, err := semver.NewConstraint(translateConstraint(s))
	if err != nil {
		return Constraint{}, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "constraint", raw)
	}
	c.sc = sc
	return c, nil
}

// MustParseConstraint is ParseConstraint for literals known to be valid.
func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

func parseExact(s string) (Version, bool) {
	trimmed := operatorRe.ReplaceAllString(s, "")
	if strings.ContainsAny(trimmed, "<>!~^*|, ") || strings.Contains(strings.ToLower(trimmed), ".x") {
		return Version{}, false
	}
	v, err := ParseVersion(trimmed)
	if err != nil || v.IsBranch() {
		return Version{}, false
	}
	return v, true
}

// translateConstraint rewrites the places where the manifest grammar
// differs from semver.Constraints: single-pipe alternation and two-part tildes.
func translateConstraint(s string) string {
	alternatives := orSplitRe.Split(s, -1)
	for i, alt := range alternatives {
		alt = strings.TrimSpace(alt)
		if strings.Contains(alt, " - ") {
			alternatives[i] = alt
			continue
		}
		terms := andSplitRe.Split(alt, -1)
		for j, term := range terms {
			if m := twoPartTildeRe.FindStringSubmatch(term); m != nil {
				major, _ := strconv.Atoi(m[1])
				terms[j] = ">=" + m[1] + "." + m[2] + ".0, <" + strconv.Itoa(major+1) + ".0.0"
				continue
			}
			if strings.HasPrefix(term, "==") {
				terms[j] = term[1:]
			}
		}
		alternatives[i] = strings.Join(terms, ", ")
	}
	return strings.Join(alternatives, " || ")
}

// String returns the constraint as it was written.
func (c Constraint) String() string { return c.pretty }

// IsAny reports whether the constraint accepts every version.
func (c Constraint) IsAny() bool { return c.any }

// StabilityFlag returns an explicit "@stability" suffix, if present.
func (c Constraint) StabilityFlag() (Stability, bool) { return c.stability, c.hasStability }

// Alias returns the inline alias target of "X as Y" constraints.
func (c Constraint) Alias() (Version, bool) {
	if c.alias == nil {
		return Version{}, false
	}
	return *c.alias, true
}

// Matches reports whether v satisfies the constraint.
func (c Constraint) Matches(v Version) bool {
	switch {
	case c.any:
		return true
	case c.exact != "":
		return v.normalized == c.exact
	case c.branch != "":
		return v.IsBranch() && strings.EqualFold(v.branch, c.branch)
	case c.sc == nil || v.sv == nil:
		return false
	}

	if c.sc.Check(v.sv) {
		return true
	}
	if v.sv.Prerelease() == "" {
		return false
	}
	core, err := v.sv.SetPrerelease("")
	if err != nil {
		return false
	}
	return c.sc.Check(&core)
}
