package lot

import (
	"errors"
	"strings"
	"time"
)

// La ventana de retiro viaja como "HH:MM-HH:MM", por ejemplo "10:00-13:00".

func ParsePickupWindow(window string) (start, end time.Time, err error) {
	parts := strings.SplitN(strings.TrimSpace(window), "-", 2)
	if len(parts) != 2 {
		return start, end, errors.New("malformed pickup window")
	}

	start, err = time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return start, end, err
	}

	end, err = time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return start, end, err
	}

	if !end.After(start) {
		return start, end, errors.New("pickup window end before start")
	}

	return start, end, nil
}

// PickupDeadline proyecta el final de la ventana sobre la fecha de hoy
// en la zona horaria del servicio.
func PickupDeadline(window string, now time.Time) (time.Time, error) {
	_, end, err := ParsePickupWindow(window)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		now.Year(), now.Month(), now.Day(),
		end.Hour(), end.Minute(), 0, 0,
		now.Location(),
	), nil
}
