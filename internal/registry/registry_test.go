package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"org-synth-go/internal/model"
	"org-synth-go/internal/randx"
)

var testTeams = []string{"Marketing", "Product", "Engineering", "Finance", "HR"}

func newTestRegistry() *Registry {
	return New(testTeams, randx.New(42))
}

func person(id, name, role, team string) *model.Person {
	return &model.Person{PersonID: id, FullName: name, RoleTitle: role, Team: team, Active: true}
}

func TestRegisterPersonIndexesTeamAndManagers(t *testing.T) {
	r := newTestRegistry()
	r.RegisterPerson(person("P_001", "Maya Chen", "Product Manager", "Product"))
	r.RegisterPerson(person("P_002", "Rahul Sharma", "Marketing Analyst", "Marketing"))
	r.RegisterPerson(person("P_003", "Dana Lopez", "Engineering Director", "Engineering"))

	assert.Len(t, r.PeopleByTeam("Product"), 1)
	assert.Len(t, r.PeopleByTeam("Marketing"), 1)
	assert.Equal(t, []string{"P_001", "P_003"}, r.Managers())
	assert.True(t, r.IsManager("P_001"))
	assert.False(t, r.IsManager("P_002"))
}

func TestRandomPersonFilters(t *testing.T) {
	r := newTestRegistry()
	r.RegisterPerson(person("P_001", "Maya Chen", "Product Manager", "Product"))
	r.RegisterPerson(person("P_002", "Rahul Sharma", "Marketing Analyst", "Marketing"))

	got := r.RandomPerson("Marketing", "")
	require.NotNil(t, got)
	assert.Equal(t, "P_002", got.PersonID)

	got = r.RandomPerson("", "manager")
	require.NotNil(t, got)
	assert.Equal(t, "P_001", got.PersonID)

	got = r.RandomPerson("", "analyst")
	require.NotNil(t, got)
	assert.Equal(t, "P_002", got.PersonID)

	assert.Nil(t, r.RandomPerson("Finance", ""), "empty candidate set returns nil, not an error")
}

func TestRelatedDocumentsUnionsTagAndTopicMatches(t *testing.T) {
	r := newTestRegistry()
	r.RegisterPerson(person("P_001", "Maya Chen", "Product Manager", "Product"))
	r.RegisterDocument(&model.Document{
		DocID: "DOC_001", Team: "Product", AuthorPersonID: "P_001",
		Tags: []string{"churn", "retention"},
	})
	r.RegisterDocument(&model.Document{
		DocID: "DOC_002", Team: "Marketing", AuthorPersonID: "P_001",
		Tags: []string{"campaign"},
	})
	r.RegisterTopic(&model.Topic{TopicID: "TOPIC_001", Name: "Customer Churn", Aliases: []string{"churn analysis"}})
	r.LinkTopicDocument("TOPIC_001", "DOC_002")

	docs := r.RelatedDocuments("churn", "", 5)
	require.Len(t, docs, 1)
	assert.Equal(t, "DOC_001", docs[0].DocID)

	// 话题名解析出 DOC_002，标签没有直接命中
	docs = r.RelatedDocuments("Customer Churn", "", 5)
	require.Len(t, docs, 1)
	assert.Equal(t, "DOC_002", docs[0].DocID)

	// 团队过滤
	docs = r.RelatedDocuments("customer churn", "Product", 5)
	assert.Empty(t, docs)

	assert.Empty(t, r.RelatedDocuments("nonexistent", "", 5))
}

func TestRelatedDocumentsHonorsLimit(t *testing.T) {
	r := newTestRegistry()
	r.RegisterPerson(person("P_001", "Maya Chen", "Product Manager", "Product"))
	for i := 0; i < 8; i++ {
		r.RegisterDocument(&model.Document{
			DocID: string(rune('A' + i)), Team: "Product", AuthorPersonID: "P_001",
			Tags: []string{"shared"},
		})
	}
	docs := r.RelatedDocuments("shared", "", 3)
	assert.Len(t, docs, 3)
}

func TestCrossReferencesAreSymmetric(t *testing.T) {
	r := newTestRegistry()
	r.AddCrossReference("DOC_001", "DOC_002")
	r.AddCrossReference("DOC_001", "DOC_002")

	assert.Equal(t, []string{"DOC_002"}, r.CrossReferences("DOC_001"))
	assert.Equal(t, []string{"DOC_001"}, r.CrossReferences("DOC_002"))
	assert.Empty(t, r.CrossReferences("DOC_003"))
}

func TestValidateSeparatesErrorsFromWarnings(t *testing.T) {
	r := newTestRegistry()
	maya := person("P_001", "Maya Chen", "Product Manager", "Product")
	r.RegisterPerson(maya)
	r.RegisterDocument(&model.Document{
		DocID: "DOC_001", Team: "Product", AuthorPersonID: "P_001",
		RelatedDocIDs: []string{"DOC_MISSING"},
	})

	report := r.Validate()
	assert.True(t, report.IsValid())
	assert.Empty(t, report.Errors)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "DOC_MISSING")
}

func TestValidateFlagsBrokenPersonReferences(t *testing.T) {
	r := newTestRegistry()
	maya := person("P_001", "Maya Chen", "Product Manager", "Product")
	maya.ManagerID = "P_404"
	r.RegisterPerson(maya)
	r.RegisterDocument(&model.Document{DocID: "DOC_001", Team: "Product", AuthorPersonID: "P_404"})
	r.RegisterDocument(&model.Document{DocID: "DOC_002", Team: "Product", AuthorPersonID: "P_001", CoAuthors: []string{"P_405"}})

	report := r.Validate()
	assert.False(t, report.IsValid())
	require.Len(t, report.Errors, 3)
	assert.Contains(t, report.Errors[0], "invalid manager_id")
	assert.Contains(t, report.Errors[1], "invalid author_person_id")
	assert.Contains(t, report.Errors[2], "invalid co_author")
}

func TestCorruptingOneAuthorYieldsExactlyOneError(t *testing.T) {
	r := newTestRegistry()
	r.RegisterPerson(person("P_001", "Maya Chen", "Product Manager", "Product"))
	doc := &model.Document{DocID: "DOC_001", Team: "Product", AuthorPersonID: "P_001"}
	r.RegisterDocument(doc)

	require.True(t, r.Validate().IsValid())

	doc.AuthorPersonID = "P_999"
	report := r.Validate()
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "DOC_001")
	assert.Contains(t, report.Errors[0], "P_999")
}

func TestPeopleIterationFollowsRegistrationOrder(t *testing.T) {
	r := newTestRegistry()
	ids := []string{"P_003", "P_001", "P_002"}
	for _, id := range ids {
		r.RegisterPerson(person(id, "Name "+id, "Engineer", "Engineering"))
	}
	people := r.People()
	require.Len(t, people, 3)
	for i, p := range people {
		assert.Equal(t, ids[i], p.PersonID)
	}
}
