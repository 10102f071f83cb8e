// Package mocks provides shared test doubles for the store, auth, job and
// service interfaces.
//
// Most mocks use function fields: set the field for the behaviour a test
// needs and leave the rest at their defaults.
//
//	users := &mocks.MockUserStore{
//	    GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
//	        return nil, store.ErrUserNotFound
//	    },
//	}
//
// TestifyMockUserStore is the testify/mock flavour for tests that assert on
// call expectations.
package mocks
