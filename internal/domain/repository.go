package domain

import "context"

// Page is a limit/offset window. Non-positive limits fall back to the repository default.
type Page struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// TransactionManager runs fn inside one database transaction carried by the context.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repositories return (nil, nil) when a single row lookup finds nothing.

type ReferenceRepository interface {
	List(ctx context.Context, kind ReferenceKind) ([]*Reference, error)
	GetByID(ctx context.Context, kind ReferenceKind, id string) (*Reference, error)
	Create(ctx context.Context, ref *Reference) error
}

type QuestionRepository interface {
	Create(ctx context.Context, q *Question) error
	Update(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id string) (*Question, error)
	GetByIDs(ctx context.Context, ids []string) ([]*Question, error)
	// GetByIDsWithDeleted includes soft-deleted questions.
	GetByIDsWithDeleted(ctx context.Context, ids []string) ([]*Question, error)
	List(ctx context.Context, filter QuestionFilter, page Page) ([]*Question, int, error)
	SoftDelete(ctx context.Context, id string) error
	ExistsByContent(ctx context.Context, content string) (bool, error)

	CountEligible(ctx context.Context, filter EligibilityFilter) (int, error)
	ListEligibleIDs(ctx context.Context, filter EligibilityFilter) ([]string, error)

	// SyncAnswers makes answers the question's option set: options whose id is listed are updated
	// in place, the rest are inserted, and unlisted options are removed. Removing an option a
	// response points at fails with ErrAnswerInUse.
	SyncAnswers(ctx context.Context, questionID string, answers []Answer) error
	GetAnswersByQuestionIDs(ctx context.Context, questionIDs []string) (map[string][]Answer, error)
}

type TestRepository interface {
	Create(ctx context.Context, t *Test) error
	Update(ctx context.Context, t *Test) error
	GetByID(ctx context.Context, id string) (*Test, error)
	// GetByIDForUpdate locks the test row for the surrounding transaction. Attempt starts and
	// definition changes serialize on it.
	GetByIDForUpdate(ctx context.Context, id string) (*Test, error)
	List(ctx context.Context, filter TestFilter, page Page) ([]*Test, int, error)
	ListAvailable(ctx context.Context, filter CatalogueFilter, page Page) ([]*Test, int, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type TestQuestionRepository interface {
	// ListStatic returns the authored rows of a test, excluding attempt-scoped samples.
	ListStatic(ctx context.Context, testID string) ([]TestQuestion, error)
	ListForAttempt(ctx context.Context, attemptID string) ([]TestQuestion, error)
	CreateBatch(ctx context.Context, rows []TestQuestion) error
	DeleteStatic(ctx context.Context, testID string) error
	DeleteByTest(ctx context.Context, testID string) error
	CountStatic(ctx context.Context, testID string) (int, error)
}

type AttemptRepository interface {
	Create(ctx context.Context, a *TestAttempt) error
	GetByID(ctx context.Context, id string) (*TestAttempt, error)
	// GetByIDForUpdate locks the row for the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*TestAttempt, error)
	// Finish stores end time, status and score. It returns false when the attempt was already finished.
	Finish(ctx context.Context, a *TestAttempt) (bool, error)
	UpdateScore(ctx context.Context, id string, score float64) error
	CountByTest(ctx context.Context, testID string) (int, error)
	CountByUserAndTest(ctx context.Context, userID, testID string) (int, error)
	ListByTest(ctx context.Context, testID string, page Page) ([]*TestAttempt, int, error)
	ListCompletedByTest(ctx context.Context, testID string) ([]*TestAttempt, error)
	ListByUser(ctx context.Context, userID string, testIDs []string) ([]*TestAttempt, error)
}

type ResponseRepository interface {
	CreateBatch(ctx context.Context, responses []UserResponse) error
	ListByAttempt(ctx context.Context, attemptID string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	Grade(ctx context.Context, id string, score float64) error
}
