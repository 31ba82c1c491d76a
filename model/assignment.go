package model

// Assignment represents hours of a task committed to a team member.
// The (TaskID, MemberID) pair is its identity.
type Assignment struct {
	TaskID        string `json:"taskId" yaml:"taskId"`
	MemberID      string `json:"memberId" yaml:"memberId"`
	AssignedHours int    `json:"assignedHours" yaml:"assignedHours"`
}

// NewAssignment creates an assignment
func NewAssignment(taskID, memberID string, hours int) *Assignment {
	return &Assignment{TaskID: taskID, MemberID: memberID, AssignedHours: hours}
}

// Key returns assignment composite key
func (a *Assignment) Key() string {
	return AssignmentID(a.TaskID, a.MemberID)
}

// Clone returns a copy of the assignment
func (a *Assignment) Clone() *Assignment {
	if a == nil {
		return nil
	}
	ret := *a
	return &ret
}

// AssignmentID returns the persistence key for a (task, member) pair
func AssignmentID(taskID, memberID string) string {
	return taskID + "-" + memberID
}

// AssignmentKey returns assignment key, used as dao key selector
func AssignmentKey(a *Assignment) string {
	return a.Key()
}
