package a2a

import (
	"time"

	"github.com/google/uuid"
)

// TaskState is the lifecycle state of an A2A task.
type TaskState string

const (
	TaskSubmitted     TaskState = "submitted"
	TaskWorking       TaskState = "working"
	TaskInputRequired TaskState = "input-required"
	TaskCompleted     TaskState = "completed"
	TaskCanceled      TaskState = "canceled"
	TaskFailed        TaskState = "failed"
	TaskRejected      TaskState = "rejected"
)

// Terminal reports whether no further state transitions are allowed.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskCompleted, TaskCanceled, TaskFailed, TaskRejected:
		return true
	}
	return false
}

// Message roles on the wire.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Part kinds on the wire.
const (
	PartText = "text"
	PartData = "data"
)

// Part is one segment of a message: either free text or a structured payload.
type Part struct {
	Kind string         `json:"kind"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Message represents a single conversational turn.
type Message struct {
	Role      string `json:"role"`
	Parts     []Part `json:"parts"`
	MessageID string `json:"messageId"`
	TaskID    string `json:"taskId,omitempty"`
	ContextID string `json:"contextId,omitempty"`
	Kind      string `json:"kind"`
}

// NewTextMessage builds an agent message carrying a single text part.
func NewTextMessage(role, text string) Message {
	return Message{
		Role:      role,
		Parts:     []Part{{Kind: PartText, Text: text}},
		MessageID: uuid.NewString(),
		Kind:      "message",
	}
}

// NewDataMessage builds an agent message carrying a single structured part.
func NewDataMessage(role string, data map[string]any) Message {
	return Message{
		Role:      role,
		Parts:     []Part{{Kind: PartData, Data: data}},
		MessageID: uuid.NewString(),
		Kind:      "message",
	}
}

// TaskStatus pairs a state with the moment it was entered and, optionally,
// the agent message that accompanied the transition.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// NewTaskStatus stamps a status with the current UTC time.
func NewTaskStatus(state TaskState) TaskStatus {
	return TaskStatus{State: state, Timestamp: time.Now().UTC().Format(time.RFC3339)}
}

// Artifact is a named output attached to a completed task.
type Artifact struct {
	ArtifactID string `json:"artifactId"`
	Name       string `json:"name,omitempty"`
	Parts      []Part `json:"parts"`
}

// Task is the unit of work tracked across a message exchange.
type Task struct {
	ID        string     `json:"id"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	History   []Message  `json:"history,omitempty"`
	Artifacts []Artifact `json:"artifacts,omitempty"`
	Kind      string     `json:"kind"`
}

// NewTask creates a submitted task seeded with the triggering message as
// history. Fresh ids are minted when the incoming message carries none.
func NewTask(incoming Message) Task {
	taskID := incoming.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := incoming.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	return Task{
		ID:        taskID,
		ContextID: contextID,
		Status:    NewTaskStatus(TaskSubmitted),
		History:   []Message{incoming},
		Kind:      "task",
	}
}

// StatusUpdate is a streaming task event. Final marks the last event of a
// stream; no events follow it.
type StatusUpdate struct {
	TaskID    string     `json:"taskId"`
	ContextID string     `json:"contextId"`
	Status    TaskStatus `json:"status"`
	Kind      string     `json:"kind"`
	Final     bool       `json:"final"`
}

// NewStatusUpdate builds a status-update event for the given task.
func NewStatusUpdate(taskID, contextID string, state TaskState, msg *Message, final bool) StatusUpdate {
	status := NewTaskStatus(state)
	status.Message = msg
	return StatusUpdate{
		TaskID:    taskID,
		ContextID: contextID,
		Status:    status,
		Kind:      "status-update",
		Final:     final,
	}
}
