package domain

import "strings"

// ServiceList is an ordered set of service names: insertion order is kept and
// no name appears twice.
type ServiceList []ServiceName

// IsCorruptServiceName reports values that leak into storage from unset
// fields on the web client and must never be treated as services.
func IsCorruptServiceName(name string) bool {
	switch strings.TrimSpace(name) {
	case "", "null", "undefined":
		return true
	default:
		return false
	}
}

// NormalizeServiceNames drops corrupt entries and duplicates, keeping the
// first occurrence of each name.
func NormalizeServiceNames(raw []string) ServiceList {
	services := make(ServiceList, 0, len(raw))
	seen := make(map[ServiceName]struct{}, len(raw))
	for _, value := range raw {
		if IsCorruptServiceName(value) {
			continue
		}
		name := ServiceName(strings.TrimSpace(value))
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		services = append(services, name)
	}

	return services
}

func (l ServiceList) Contains(name ServiceName) bool {
	for _, existing := range l {
		if existing == name {
			return true
		}
	}
	return false
}

// With appends name unless it is already present. The receiver is never
// modified.
func (l ServiceList) With(name ServiceName) (ServiceList, bool) {
	if l.Contains(name) {
		return l.Clone(), false
	}

	updated := make(ServiceList, 0, len(l)+1)
	updated = append(updated, l...)
	return append(updated, name), true
}

// Without removes every exact match of name.
func (l ServiceList) Without(name ServiceName) (ServiceList, bool) {
	updated := make(ServiceList, 0, len(l))
	for _, existing := range l {
		if existing == name {
			continue
		}
		updated = append(updated, existing)
	}

	return updated, len(updated) != len(l)
}

func (l ServiceList) Clone() ServiceList {
	cloned := make(ServiceList, len(l))
	copy(cloned, l)
	return cloned
}

func (l ServiceList) Strings() []string {
	values := make([]string, 0, len(l))
	for _, name := range l {
		values = append(values, string(name))
	}
	return values
}

func (l ServiceList) Count() int {
	return len(l)
}
