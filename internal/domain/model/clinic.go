package model

import "encoding/json"

// WorkingDay is one row of a clinic's weekly schedule.
type WorkingDay struct {
	DayOfWeek    string `json:"dayOfWeek"`
	WorkingHours string `json:"workingHours"`
}

// ClinicInfo is a doctor's clinic record from /ClinicInfo/my-info.
// The API reads the address as "location" and may return either field.
type ClinicInfo struct {
	ClinicName       string       `json:"clinicName"`
	Address          string       `json:"address"`
	PhoneNumber      string       `json:"phoneNumber"`
	Email            string       `json:"email"            validate:"omitempty,email"`
	Description      string       `json:"description"`
	Specializations  string       `json:"specializations"`
	WorkingHours     string       `json:"workingHours"`
	EmergencyContact string       `json:"emergencyContact"`
	Website          string       `json:"website"          validate:"omitempty,url"`
	WorkingTime      string       `json:"workingTime"`
	WeeklySchedule   string       `json:"weeklySchedule"`
	WorkingDays      []WorkingDay `json:"workingDays"`
}

// UnmarshalJSON fills Address from "location" when "address" is absent
// and guarantees at least one (blank) working day row.
func (c *ClinicInfo) UnmarshalJSON(b []byte) error {
	type plain ClinicInfo
	var aux struct {
		plain
		Location string `json:"location"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*c = ClinicInfo(aux.plain)
	if c.Address == "" {
		c.Address = aux.Location
	}
	if len(c.WorkingDays) == 0 {
		c.WorkingDays = []WorkingDay{{}}
	}
	return nil
}

// ClinicInfoUpdate is the PUT payload; the address travels as "location".
type ClinicInfoUpdate struct {
	ClinicName       string       `json:"clinicName"`
	Email            string       `json:"email"`
	PhoneNumber      string       `json:"phoneNumber"`
	EmergencyContact string       `json:"emergencyContact"`
	Description      string       `json:"description"`
	Specializations  string       `json:"specializations"`
	Website          string       `json:"website"`
	Location         string       `json:"location"`
	WorkingTime      string       `json:"workingTime"`
	WeeklySchedule   string       `json:"weeklySchedule"`
	WorkingDays      []WorkingDay `json:"workingDays"`
}

// UpdatePayload converts c into the PUT body.
func (c ClinicInfo) UpdatePayload() ClinicInfoUpdate {
	return ClinicInfoUpdate{
		ClinicName:       c.ClinicName,
		Email:            c.Email,
		PhoneNumber:      c.PhoneNumber,
		EmergencyContact: c.EmergencyContact,
		Description:      c.Description,
		Specializations:  c.Specializations,
		Website:          c.Website,
		Location:         c.Address,
		WorkingTime:      c.WorkingTime,
		WeeklySchedule:   c.WeeklySchedule,
		WorkingDays:      c.WorkingDays,
	}
}
