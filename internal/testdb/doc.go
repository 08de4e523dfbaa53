// Package testdb provides utilities for PostgreSQL integration tests.
//
// Tests run only when DATABASE_URL is set. Each test works inside its own
// transaction, which is rolled back when the test completes, so tests can
// share one schema without cleaning up after themselves:
//
//	func TestTaskStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        s := postgres.NewPostgresTaskStore(tx, nil)
//	        // ...
//	    })
//	}
package testdb
