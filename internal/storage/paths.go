package storage

import (
	"fmt"
	"path"

	"github.com/google/uuid"
)

// ApplicationPhotoPath builds the storage path for an application photo. A
// random prefix keeps uploads with the same filename from colliding.
func ApplicationPhotoPath(applicationID uint, filename string) string {
	return fmt.Sprintf("applications/%d/%s_%s", applicationID, uuid.NewString()[:8], path.Base(filename))
}

// ReportPhotoPath builds the storage path for a report photo under its section.
func ReportPhotoPath(reportID, section, filename string) string {
	return fmt.Sprintf("reports/%s/%s/%s_%s", reportID, section, uuid.NewString()[:8], path.Base(filename))
}
