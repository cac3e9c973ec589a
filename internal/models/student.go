package models

// Student is a single record of the student collection.
type Student struct {
	StudentID         string `json:"student_id" yaml:"student_id"`
	StudentName       string `json:"student_name" yaml:"student_name"`
	YearsOfExperience int    `json:"years_of_experience" yaml:"years_of_experience"`
	CompanyName       string `json:"company_name" yaml:"company_name"`
}

// FindStudent scans the collection for the first record with the given id.
// It returns the index and a pointer into the slice, or -1 and nil.
func FindStudent(students []Student, studentID string) (int, *Student) {
	for i := range students {
		if students[i].StudentID == studentID {
			return i, &students[i]
		}
	}
	return -1, nil
}
