// Package schema defines the per-event-type output column sets, the
// enumerated choice vocabularies, and the field-name to normalizer-kind
// mapping used by the resolution and flyer pipelines.
package schema

import "strings"

// Shared column groups. Every type-specific schema is assembled from the
// common head, zero or more discipline groups, and the common tail, so
// the column vocabularies overlap heavily but are not identical.
var (
	commonHead = []string{
		"event", "festivalName", "imageURL", "raceVideo", "type", "date",
		"city", "organiser", "participationType", "firstEdition",
		"lastEdition", "countEditions", "mode", "raceAccredition", "theme",
		"numberOfparticipants", "startTime", "scenic", "registrationCost",
		"ageLimitation", "eventWebsite", "organiserWebsite", "bookingLink",
		"newsCoverage", "lastDate", "participationCriteria", "refundPolicy",
	}

	swimGroup = []string{
		"swimDistance", "swimType", "swimmingLocation", "waterTemperature",
		"swimCoursetype", "swimCutoff", "swimRoutemap",
	}

	cycleGroup = []string{
		"cyclingDistance", "cyclingElevation", "cyclingSurface",
		"cyclingElevationgain", "cycleCoursetype", "cycleCutoff",
		"cyclingRoutemap",
	}

	runGroup = []string{
		"runningDistance", "runningElevation", "runningSurface",
		"runningElevationgain", "runningElevationloss", "runningCoursetype",
		"runCutoff", "runRoutemap",
	}

	commonTail = []string{
		"organiserRating", "triathlonType", "standardTag", "region",
		"approvalStatus", "difficultyLevel", "month", "primaryKey",
		"latitude", "longitude", "country", "editionYear", "aidStations",
		"restrictedTraffic", "user_id", "femaleParticpation",
		"jellyFishRelated", "registrationOpentag", "eventConcludedtag",
		"state", "nextEdition",
	}
)

func assemble(groups ...[]string) []string {
	var out []string
	out = append(out, commonHead...)
	for _, g := range groups {
		out = append(out, g...)
	}
	out = append(out, commonTail...)
	return out
}

// Per-type schemas. Column order is the CSV column order.
var (
	Triathlon     = assemble(swimGroup, cycleGroup, runGroup)
	Running       = assemble(runGroup)
	Swimming      = assemble(swimGroup)
	Duathlon      = assemble(runGroup, cycleGroup)
	Aquathlon     = assemble(swimGroup, runGroup)
	Aquabike      = assemble(swimGroup, cycleGroup)
	Cycling       = assemble(cycleGroup)
	FitnessRacing = assemble(runGroup)

	// Flyer is the single fixed schema for the image pipeline: every
	// discipline group, matching the growing event_data.csv layout.
	Flyer = Triathlon
)

// byType maps lowercased event type names to their schemas.
var byType = map[string][]string{
	"triathlon":      Triathlon,
	"running":        Running,
	"trail running":  Running,
	"swimming":       Swimming,
	"duathlon":       Duathlon,
	"aquathlon":      Aquathlon,
	"aquabike":       Aquabike,
	"cycling":        Cycling,
	"fitness racing": FitnessRacing,
}

// ForType returns the schema for an event type, matching case-insensitively.
func ForType(eventType string) ([]string, bool) {
	s, ok := byType[strings.ToLower(strings.TrimSpace(eventType))]
	return s, ok
}

// DefaultBlank lists the columns reserved for manual downstream curation.
// They are forced empty in every emitted row regardless of resolved values.
var DefaultBlank = map[string]bool{
	"imageURL":            true,
	"raceVideo":           true,
	"newsCoverage":        true,
	"organiserRating":     true,
	"standardTag":         true,
	"primaryKey":          true,
	"latitude":            true,
	"longitude":           true,
	"user_id":             true,
	"femaleParticpation":  true,
	"registrationOpentag": true,
	"eventConcludedtag":   true,
	"nextEdition":         true,
}

// Choices holds the allowed options per enumerated field. Matching is
// case-insensitive and exact: anything outside the list resolves empty.
var Choices = map[string][]string{
	"participationType": {"Individual", "Relay", "Group"},
	"mode":              {"Virtual", "On-Ground"},
	"type":              {"Triathlon", "Aquabike", "Aquathlon", "Duathlon", "Run", "Cycling", "Swimathon"},
	"region":            {"West India", "Central and East India", "North India", "South India", "Nepal", "Bhutan", "Sri Lanka"},
	"runningSurface":    {"Road", "Trail", "Track", "Road + Trail"},
	"runningElevation":  {"Flat", "Rolling", "Hilly", "Skyrunning"},
	"runningCoursetype": {"Single Loop", "Multiple Loop", "Out and Back", "Point to Point"},
	"swimType":          {"Lake", "Beach", "River", "Pool"},
	"swimCoursetype":    {"Single Loop", "Multiple Loops", "Out and Back", "Point to Point"},
	"cyclingElevation":  {"Flat", "Rolling", "Hilly"},
	"cycleCoursetype":   {"Single Loop", "Multiple Loops", "Out and Back", "Point to Point"},
	"triathlonType":     {"Super Sprint", "Sprint Distance", "Olympic Distance", "Half Iron(70.3)", "Iron Distance (140.6)", "Ultra Distance"},
	"restrictedTraffic": {"Yes", "No"},
	"jellyFishRelated":  {"Yes", "No"},
	"approvalStatus":    {"Approved", "Pending Approval"},
}
