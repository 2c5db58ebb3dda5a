package timezone

import "time"

var Location *time.Location

func init() {
	var err error
	Location, err = time.LoadLocation("Europe/Rome")
	if err != nil {
		panic(err)
	}
}

// force the municipality's timezone regardless of where the process
// runs, publication dates on the board are local-time labels and cron
// schedules should fire on local wall-clock time.
func Now() time.Time {
	return time.Now().In(Location)
}
