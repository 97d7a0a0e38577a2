package demoapi

import "github.com/abhisek/classquiz/internal/model"

// Dataset is the static content served by the demo server.
type Dataset struct {
	Classrooms []model.Classroom
	Users      []model.User
	// Members lists the user ids enrolled in or teaching each classroom.
	Members   map[int][]int
	Tests     map[int][]model.Test     // by classroom
	Questions map[int][]model.Question // by test
	Options   map[int][]model.Option   // by question
}

// SeedData returns a small dataset with one classroom, two tests and
// three users.
func SeedData() Dataset {
	return Dataset{
		Classrooms: []model.Classroom{{ID: 1, Name: "Class 3B"}},
		Users: []model.User{
			{ID: 1, Username: "teacher"},
			{ID: 2, Username: "alice"},
			{ID: 3, Username: "bob"},
		},
		Members: map[int][]int{1: {1, 2, 3}},
		Tests: map[int][]model.Test{
			1: {{ID: 10, Name: "Animals"}, {ID: 11, Name: "Colours"}},
		},
		Questions: map[int][]model.Question{
			10: {
				{ID: 100, Name: "Which animal barks?", QuestionSound: "/media/sounds/q100.mp3"},
				{ID: 101, Name: "Which animal says moo?", QuestionSound: "/media/sounds/q101.mp3"},
				{ID: 102, Name: "Which animal has a trunk?"},
			},
			11: {
				{ID: 110, Name: "What colour is the sky?"},
				{ID: 111, Name: "What colour is grass?"},
			},
		},
		Options: map[int][]model.Option{
			100: {{ID: 1000, Name: "Dog", IsCorrect: true}, {ID: 1001, Name: "Cat"}, {ID: 1002, Name: "Fish"}},
			101: {{ID: 1010, Name: "Horse"}, {ID: 1011, Name: "Cow", IsCorrect: true}},
			102: {{ID: 1020, Name: "Mouse"}, {ID: 1021, Name: "Elephant", IsCorrect: true}},
			110: {{ID: 1100, Name: "Blue", IsCorrect: true}, {ID: 1101, Name: "Red"}},
			111: {{ID: 1110, Name: "Green", IsCorrect: true}, {ID: 1111, Name: "Purple"}},
		},
	}
}
