package models

import "time"

// SampleTable returns the fixed five-record demo dataset used when the
// primary data file is absent or fails to load. The values mirror the
// documented sample so the dashboard stays usable and predictable.
func SampleTable() *Table {
	rows := []Patient{
		{
			PatientID:   "P001",
			Name:        "John A Doe",
			Sex:         SexMale,
			BirthDate:   sampleDate(1979, time.May, 15),
			Address:     "123 Main St",
			LastVisit:   sampleDate(2024, time.January, 15),
			Conditions:  "Hypertension",
			Medications: "Lisinopril",
			Hemoglobin:  sampleFloat(14.2),
			Glucose:     sampleFloat(95),
			SSN:         "123-45-6789",
			PhoneNumber: "555-0101",
			Valid:       true,
		},
		{
			PatientID:          "P002",
			Name:               "Jane B Smith",
			Sex:                SexFemale,
			BirthDate:          sampleDate(1992, time.August, 20),
			Address:            "456 Oak Ave",
			LastVisit:          sampleDate(2024, time.January, 20),
			Conditions:         "Diabetes",
			Medications:        "Metformin",
			Hemoglobin:         sampleFloat(13.8),
			Glucose:            sampleFloat(120),
			SSN:                "234-56-7890",
			PhoneNumber:        "555-0102",
			GuardrailViolation: true,
			Valid:              true,
		},
		{
			PatientID:   "P003",
			Name:        "Mike C Johnson",
			Sex:         SexMale,
			BirthDate:   sampleDate(1966, time.March, 10),
			Address:     "789 Pine Rd",
			LastVisit:   sampleDate(2024, time.January, 18),
			Conditions:  "Asthma",
			Medications: "Albuterol",
			Hemoglobin:  sampleFloat(15.1),
			Glucose:     sampleFloat(88),
			SSN:         "345-67-8901",
			PhoneNumber: "555-0103",
			Valid:       true,
		},
		{
			PatientID:   "P004",
			Name:        "Sarah D Wilson",
			Sex:         SexFemale,
			BirthDate:   sampleDate(1995, time.November, 25),
			Address:     "321 Elm St",
			LastVisit:   sampleDate(2024, time.January, 22),
			Conditions:  "None",
			Medications: "None",
			Hemoglobin:  sampleFloat(14.5),
			Glucose:     sampleFloat(92),
			SSN:         "456-78-9012",
			PhoneNumber: "555-0104",
			Valid:       true,
		},
		{
			PatientID:          "P005",
			Name:               "David E Brown",
			Sex:                SexMale,
			BirthDate:          sampleDate(1957, time.December, 3),
			Address:            "654 Maple Dr",
			LastVisit:          sampleDate(2024, time.January, 19),
			Conditions:         "Arthritis",
			Medications:        "Ibuprofen",
			Hemoglobin:         sampleFloat(13.9),
			Glucose:            sampleFloat(105),
			SSN:                "567-89-0123",
			PhoneNumber:        "555-0105",
			GuardrailViolation: true,
			Valid:              true,
		},
	}

	return &Table{Rows: rows}
}

func sampleDate(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleFloat(f float64) *float64 {
	return &f
}
