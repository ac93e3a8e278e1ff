package models

import (
	"errors"
	"strconv"
)

type ItemCategory string

const (
	ItemCategoryHvac       ItemCategory = "hvac"
	ItemCategoryPlumbing   ItemCategory = "plumbing"
	ItemCategoryElectrical ItemCategory = "electrical"
	ItemCategoryGeneral    ItemCategory = "general"
)

func (c *ItemCategory) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("item category must be string")
	}
	switch ItemCategory(str) {
	case ItemCategoryHvac, ItemCategoryPlumbing, ItemCategoryElectrical, ItemCategoryGeneral:
		*c = ItemCategory(str)
	case "":
		*c = ItemCategoryGeneral
	default:
		return errors.New("invalid item category")
	}
	return nil
}

type JobStatus string

const (
	JobStatusDraft     JobStatus = "draft"
	JobStatusSent      JobStatus = "sent"
	JobStatusAccepted  JobStatus = "accepted"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

func (s *JobStatus) UnmarshalJSON(data []byte) error {
	str, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("job status must be string")
	}
	switch JobStatus(str) {
	case JobStatusDraft, JobStatusSent, JobStatusAccepted, JobStatusCompleted, JobStatusCancelled:
		*s = JobStatus(str)
	case "":
		*s = JobStatusDraft
	default:
		return errors.New("invalid job status")
	}
	return nil
}
