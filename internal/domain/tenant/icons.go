package tenant

// Icons are the icon keys a team may carry.
var Icons = []string{
	"briefcase",
	"building",
	"bolt",
	"beaker",
	"book",
	"calendar",
	"chart",
	"code",
	"compass",
	"cpu",
	"database",
}

var iconSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Icons))
	for _, k := range Icons {
		m[k] = struct{}{}
	}
	return m
}()

// ValidIcon reports whether key is empty or a known icon.
func ValidIcon(key string) bool {
	if key == "" {
		return true
	}
	_, ok := iconSet[key]
	return ok
}
