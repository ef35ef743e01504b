package extract

import "strings"

// SynthesizedKeys returns message keys that are never written literally in
// source but are derived from descriptor configuration. Their presence in
// the descriptor counts as use.
func SynthesizedKeys(d *Descriptor) []string {
	var keys []string

	for _, right := range d.AvailableRights {
		keys = append(keys, "right-"+right, "action-"+right)
	}

	for _, right := range sortedKeys(d.GrantPermissions) {
		keys = append(keys, "grant-"+right)
	}

	// Many of these are core groups, which is harmless.
	for _, group := range sortedKeys(d.GroupPermissions) {
		keys = append(keys,
			"group-"+group,
			"group-"+group+"-member",
			"grouppage-"+group,
			"group-"+group+".js",
			"group-"+group+".css",
		)
	}

	for _, page := range sortedKeys(d.SpecialPages) {
		keys = append(keys, strings.ToLower(page))
	}

	for _, logType := range d.LogTypes {
		keys = append(keys,
			"log-name-"+logType,
			"log-description-"+logType,
			"logeventslist-"+logType+"-log",
		)
	}

	for _, logType := range sortedKeys(d.ActionFilteredLogs) {
		keys = append(keys, "log-action-filter-"+logType)
		for _, action := range sortedKeys(d.ActionFilteredLogs[logType]) {
			keys = append(keys,
				"log-action-filter-"+logType+"-"+action,
				"logentry-"+logType+"-"+action,
			)
		}
	}

	return keys
}

// SynthesizedText joins synthesized keys into a single scannable text.
func SynthesizedText(descriptors []*Descriptor) string {
	var keys []string
	for _, d := range descriptors {
		keys = append(keys, SynthesizedKeys(d)...)
	}
	return strings.Join(keys, "  ")
}
