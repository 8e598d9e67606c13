package jso

import "strings"

// URI is a parsed URI reference using byte offsets into the original string
// rather than substring copies, per the reference model this module
// implements (the teacher's `utils.go` instead re-parses with `net/url` at
// every call site; here a single parse produces reusable offsets). A
// position of -1 means the corresponding component is absent.
type URI struct {
	Raw string

	SchemeEnd    int // index just past "scheme:", or -1 if no scheme
	HostStart    int // index just past "//", or -1 if no authority
	HostEnd      int
	PathStart    int // always >= 0 once SchemeEnd/HostEnd are resolved
	QueryStart   int // index of '?', or -1
	FragmentStart int // index of '#', or -1
}

// ParseURI parses s into its scheme/authority/path/query/fragment offsets.
// It does not validate scheme or host grammar beyond locating delimiters;
// callers that need strict RFC 3986 conformance run isValidURI-style checks
// separately.
func ParseURI(s string) URI {
	u := URI{Raw: s, SchemeEnd: -1, HostStart: -1, HostEnd: -1, QueryStart: -1, FragmentStart: -1}

	rest := s
	offset := 0

	if i := strings.Index(rest, "#"); i >= 0 {
		u.FragmentStart = i
		rest = s[:i]
	}
	if i := strings.Index(rest, "?"); i >= 0 {
		u.QueryStart = i
		rest = s[:i]
	}

	if i := strings.Index(rest, "://"); i >= 0 {
		u.SchemeEnd = i + 1
		offset = i + 3
		u.HostStart = offset
		hostEnd := len(rest)
		if j := strings.IndexByte(rest[offset:], '/'); j >= 0 {
			hostEnd = offset + j
		}
		u.HostEnd = hostEnd
		offset = hostEnd
	} else if i := strings.IndexByte(rest, ':'); i >= 0 && isSchemeName(rest[:i]) {
		u.SchemeEnd = i + 1
		offset = i + 1
	}

	u.PathStart = offset
	return u
}

func isSchemeName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}

// Scheme returns the scheme component, or "" if absent.
func (u URI) Scheme() string {
	if u.SchemeEnd < 0 {
		return ""
	}
	return u.Raw[:u.SchemeEnd-1]
}

// Host returns the authority component, or "" if absent.
func (u URI) Host() string {
	if u.HostStart < 0 {
		return ""
	}
	return u.Raw[u.HostStart:u.HostEnd]
}

// Path returns the path component (without query or fragment).
func (u URI) Path() string {
	end := len(u.Raw)
	if u.QueryStart >= 0 {
		end = u.QueryStart
	} else if u.FragmentStart >= 0 {
		end = u.FragmentStart
	}
	if u.PathStart > end {
		return ""
	}
	return u.Raw[u.PathStart:end]
}

// Fragment returns the fragment component (without the leading '#'), or ""
// if absent.
func (u URI) Fragment() string {
	if u.FragmentStart < 0 {
		return ""
	}
	return u.Raw[u.FragmentStart+1:]
}

// IsAbsolute reports whether the URI carries both a scheme and an authority,
// matching the teacher's isAbsoluteURI but without re-parsing.
func (u URI) IsAbsolute() bool {
	return u.SchemeEnd >= 0 && u.HostStart >= 0
}

// WithoutFragment returns the raw URI string with any fragment stripped.
func (u URI) WithoutFragment() string {
	if u.FragmentStart < 0 {
		return u.Raw
	}
	return u.Raw[:u.FragmentStart]
}

// BaseOf returns the "directory" base of an $id-style URI: the scheme,
// authority and path truncated after the last '/', mirroring the teacher's
// getBaseURI but operating on offsets instead of net/url.URL mutation.
func BaseOf(id string) string {
	if id == "" {
		return ""
	}
	u := ParseURI(id)
	if !u.IsAbsolute() {
		return ""
	}
	p := u.Path()
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[:i+1]
	} else {
		p = "/"
	}
	return u.Raw[:u.SchemeEnd] + "//" + u.Host() + p
}

// ResolveURI resolves ref against base, returning ref unchanged if it is
// already absolute or if base cannot act as a base (mirrors the teacher's
// resolveRelativeURI contract).
func ResolveURI(base, ref string) string {
	r := ParseURI(ref)
	if r.IsAbsolute() {
		return ref
	}
	b := ParseURI(base)
	if !b.IsAbsolute() {
		return ref
	}
	if strings.HasPrefix(ref, "#") {
		return b.WithoutFragment() + ref
	}
	if strings.HasPrefix(ref, "/") {
		return b.Raw[:b.SchemeEnd] + "//" + b.Host() + ref
	}
	dir := BaseOf(base)
	if dir == "" {
		return ref
	}
	return joinPath(dir, ref)
}

func joinPath(dir, ref string) string {
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	combined := dir + ref
	// Collapse "./" and "a/../" segments left to right, the minimal dot-segment
	// removal RFC 3986 §5.2.4 requires for the ref shapes this module resolves
	// ($ref values relative to a schema's base URI).
	segs := strings.Split(combined, "/")
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch s {
		case ".":
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
