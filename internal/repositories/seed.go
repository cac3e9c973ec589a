package repositories

import "github.com/SAP-F-2025/student-service/internal/models"

// SeedStudents returns the records written when a fresh store is seeded.
func SeedStudents() []models.Student {
	return []models.Student{
		{StudentID: "STU001", StudentName: "Aarav Sharma", YearsOfExperience: 2, CompanyName: "Infosys"},
		{StudentID: "STU002", StudentName: "Priya Patel", YearsOfExperience: 5, CompanyName: "TCS"},
		{StudentID: "STU003", StudentName: "Rahul Verma", YearsOfExperience: 1, CompanyName: "Wipro"},
		{StudentID: "STU004", StudentName: "Sneha Iyer", YearsOfExperience: 3, CompanyName: "Accenture"},
		{StudentID: "STU005", StudentName: "Karan Mehta", YearsOfExperience: 4, CompanyName: "Capgemini"},
	}
}
