package stores

import (
	"encoding/json"
	"testing"
)

func TestTodoUpdate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTitle     Optional[string]
		wantCompleted Optional[bool]
	}{
		{
			name:  "empty object",
			input: `{}`,
		},
		{
			name:      "title only",
			input:     `{"title":"Buy oat milk"}`,
			wantTitle: Some("Buy oat milk"),
		},
		{
			name:          "completed false is present",
			input:         `{"completed":false}`,
			wantCompleted: Some(false),
		},
		{
			name:          "null is absent",
			input:         `{"title":null,"completed":true}`,
			wantCompleted: Some(true),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var update TodoUpdate
			if err := json.Unmarshal([]byte(tt.input), &update); err != nil {
				t.Fatalf("failed to decode update: %v", err)
			}
			if update.Title != tt.wantTitle {
				t.Errorf("title: expected %+v, got %+v", tt.wantTitle, update.Title)
			}
			if update.Completed != tt.wantCompleted {
				t.Errorf("completed: expected %+v, got %+v", tt.wantCompleted, update.Completed)
			}
		})
	}
}

func TestTodoUpdate_UnmarshalJSONTypeMismatch(t *testing.T) {
	var update TodoUpdate
	if err := json.Unmarshal([]byte(`{"completed":"yes"}`), &update); err == nil {
		t.Error("expected error for non-boolean completed")
	}
}

func TestTodoUpdate_Apply(t *testing.T) {
	todo := &Todo{ID: "1", Title: "A", Completed: false}

	update := TodoUpdate{Completed: Some(true)}
	if update.IsEmpty() {
		t.Fatal("expected update with completed set to be non-empty")
	}
	update.apply(todo)

	want := Todo{ID: "1", Title: "A", Completed: true}
	if *todo != want {
		t.Errorf("expected %+v, got %+v", want, *todo)
	}

	if !(TodoUpdate{}).IsEmpty() {
		t.Error("expected zero update to be empty")
	}
}

func TestOptional(t *testing.T) {
	var absent Optional[string]
	if absent.IsSet() {
		t.Error("expected zero Optional to be absent")
	}
	if v, ok := absent.Get(); ok || v != "" {
		t.Errorf("expected absent zero value, got %q, %v", v, ok)
	}

	present := Some("")
	if v, ok := present.Get(); !ok || v != "" {
		t.Errorf("expected present empty string, got %q, %v", v, ok)
	}
}

func TestTodo_JSON(t *testing.T) {
	data, err := json.Marshal(Todo{ID: "t1", Title: "Buy milk", Completed: true})
	if err != nil {
		t.Fatal(err)
	}

	want := `{"id":"t1","title":"Buy milk","completed":true}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}
