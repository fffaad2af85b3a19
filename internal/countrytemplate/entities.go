package countrytemplate

import "lexcore-hq/lexcore/pkg/entity"

// newEntities builds the template's entity model: atomic persons and
// households with capped parent roles.
func newEntities() (*entity.Entity, *entity.Entity, error) {
	person := entity.NewPerson("person", "persons", "An individual")
	household, err := entity.New("household", "households", "All the people living together in the same dwelling", []entity.Role{
		{
			Key:      "parent",
			Plural:   "parents",
			Max:      2,
			Subroles: []string{"first_parent", "second_parent"},
		},
		{
			Key:    "child",
			Plural: "children",
		},
	})
	if err != nil {
		return nil, nil, err
	}
	return person, household, nil
}
