package advisor

import (
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/advisor/internal/catalog"
)

// ListHeader introduces the sorted course listing.
const ListHeader = "All Computer Science courses (A–Z):"

// WriteCourseList writes the listing header and one "ID, Title" line per course.
func WriteCourseList(w io.Writer, courses []catalog.Course) {
	fmt.Fprintln(w, ListHeader)
	for _, c := range courses {
		fmt.Fprintf(w, "%s, %s\n", c.ID, c.Title)
	}
}

// WriteCourse writes a course's title line followed by its prerequisites.
func WriteCourse(w io.Writer, c catalog.Course) {
	fmt.Fprintf(w, "%s, %s\n", c.ID, c.Title)
	fmt.Fprintf(w, "Prerequisites: %s\n", PrerequisiteLine(c))
}

// PrerequisiteLine joins the prerequisites with ", " or returns "None".
func PrerequisiteLine(c catalog.Course) string {
	if !c.HasPrerequisites() {
		return "None"
	}
	return strings.Join(c.Prerequisites, ", ")
}
