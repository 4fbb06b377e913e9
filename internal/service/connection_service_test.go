package service

import (
	"context"
	"path/filepath"
	"testing"

	"zapdash/internal/gateway"
	"zapdash/internal/logging"
	"zapdash/internal/models"
	"zapdash/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func initTestLogger(t *testing.T) {
	t.Helper()
	logging.InitLogger(&logging.LogConfig{
		File:       filepath.Join(t.TempDir(), "test.log"),
		MaxSize:    1,
		MaxBackups: 1,
		MaxAge:     1,
	})
}

// Mock ConnectionRepository
type mockConnectionRepository struct {
	repository.ConnectionRepository
	createFunc            func(ctx context.Context, conn *models.Connection) error
	createBatchFunc       func(ctx context.Context, conns []models.Connection) error
	getByInstanceNameFunc func(ctx context.Context, name string) (*models.Connection, error)
	listVisibleFunc       func(ctx context.Context, viewer repository.Viewer) ([]models.Connection, error)
	listNamesFunc         func(ctx context.Context) ([]string, error)
	deleteFunc            func(ctx context.Context, id uint) error
	updateTeamFunc        func(ctx context.Context, name string, teamID *uint) (int64, error)
}

func (m *mockConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, conn)
	}
	return nil
}

func (m *mockConnectionRepository) CreateBatch(ctx context.Context, conns []models.Connection) error {
	if m.createBatchFunc != nil {
		return m.createBatchFunc(ctx, conns)
	}
	return nil
}

func (m *mockConnectionRepository) GetByInstanceName(ctx context.Context, name string) (*models.Connection, error) {
	if m.getByInstanceNameFunc != nil {
		return m.getByInstanceNameFunc(ctx, name)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockConnectionRepository) ListVisible(ctx context.Context, viewer repository.Viewer) ([]models.Connection, error) {
	if m.listVisibleFunc != nil {
		return m.listVisibleFunc(ctx, viewer)
	}
	return []models.Connection{}, nil
}

func (m *mockConnectionRepository) ListNames(ctx context.Context) ([]string, error) {
	if m.listNamesFunc != nil {
		return m.listNamesFunc(ctx)
	}
	return nil, nil
}

func (m *mockConnectionRepository) Delete(ctx context.Context, id uint) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockConnectionRepository) UpdateTeamByInstanceName(ctx context.Context, name string, teamID *uint) (int64, error) {
	if m.updateTeamFunc != nil {
		return m.updateTeamFunc(ctx, name, teamID)
	}
	return 1, nil
}

// Mock gateway API
type mockGateway struct {
	gateway.API
	fetchInstancesFunc  func(ctx context.Context) []gateway.Instance
	createInstanceFunc  func(ctx context.Context, name string) (interface{}, error)
	connectInstanceFunc func(ctx context.Context, token, phone string) (interface{}, error)
	logoutInstanceFunc  func(ctx context.Context, token string)
	deleteInstanceFunc  func(ctx context.Context, token string) error
	getStatusFunc       func(ctx context.Context, token string) interface{}
	setWebhookFunc      func(ctx context.Context, token string, cfg gateway.WebhookConfig) (interface{}, error)
	findWebhookFunc     func(ctx context.Context, token string) interface{}
}

func (m *mockGateway) FetchInstances(ctx context.Context) []gateway.Instance {
	if m.fetchInstancesFunc != nil {
		return m.fetchInstancesFunc(ctx)
	}
	return nil
}

func (m *mockGateway) CreateInstance(ctx context.Context, name string) (interface{}, error) {
	if m.createInstanceFunc != nil {
		return m.createInstanceFunc(ctx, name)
	}
	return map[string]interface{}{"token": "tok"}, nil
}

func (m *mockGateway) ConnectInstance(ctx context.Context, token, phone string) (interface{}, error) {
	if m.connectInstanceFunc != nil {
		return m.connectInstanceFunc(ctx, token, phone)
	}
	return nil, nil
}

func (m *mockGateway) LogoutInstance(ctx context.Context, token string) {
	if m.logoutInstanceFunc != nil {
		m.logoutInstanceFunc(ctx, token)
	}
}

func (m *mockGateway) DeleteInstance(ctx context.Context, token string) error {
	if m.deleteInstanceFunc != nil {
		return m.deleteInstanceFunc(ctx, token)
	}
	return nil
}

func (m *mockGateway) GetInstanceStatus(ctx context.Context, token string) interface{} {
	if m.getStatusFunc != nil {
		return m.getStatusFunc(ctx, token)
	}
	return nil
}

func (m *mockGateway) SetWebhook(ctx context.Context, token string, cfg gateway.WebhookConfig) (interface{}, error) {
	if m.setWebhookFunc != nil {
		return m.setWebhookFunc(ctx, token, cfg)
	}
	return nil, nil
}

func (m *mockGateway) FindWebhook(ctx context.Context, token string) interface{} {
	if m.findWebhookFunc != nil {
		return m.findWebhookFunc(ctx, token)
	}
	return nil
}

func TestCreateConnection(t *testing.T) {
	initTestLogger(t)
	viewer := repository.Viewer{UserID: "user-7"}

	t.Run("creates remote then registers local row", func(t *testing.T) {
		var created *models.Connection
		repo := &mockConnectionRepository{
			createFunc: func(ctx context.Context, conn *models.Connection) error {
				created = conn
				return nil
			},
		}
		gw := &mockGateway{
			createInstanceFunc: func(ctx context.Context, name string) (interface{}, error) {
				assert.Equal(t, "sales1", name)
				return map[string]interface{}{"instance": map[string]interface{}{"token": "tok-123"}}, nil
			},
		}

		svc := NewConnectionService(repo, gw)
		conn, err := svc.CreateConnection(context.Background(), viewer, " sales1 ")
		require.NoError(t, err)

		require.NotNil(t, created)
		assert.Equal(t, "sales1", conn.InstanceName)
		assert.Equal(t, "user-7", conn.UserID)
		assert.Equal(t, "tok-123", conn.Token)
	})

	t.Run("missing token fails loudly without inserting", func(t *testing.T) {
		inserted := false
		repo := &mockConnectionRepository{
			createFunc: func(ctx context.Context, conn *models.Connection) error {
				inserted = true
				return nil
			},
		}
		gw := &mockGateway{
			createInstanceFunc: func(ctx context.Context, name string) (interface{}, error) {
				return map[string]interface{}{"name": name, "status": "created"}, nil
			},
		}

		svc := NewConnectionService(repo, gw)
		_, err := svc.CreateConnection(context.Background(), viewer, "sales1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTokenMissing)
		assert.False(t, inserted, "no local row must be created without a token")
	})

	t.Run("duplicate registration maps to conflict", func(t *testing.T) {
		repo := &mockConnectionRepository{
			createFunc: func(ctx context.Context, conn *models.Connection) error {
				return gorm.ErrDuplicatedKey
			},
		}
		gw := &mockGateway{
			createInstanceFunc: func(ctx context.Context, name string) (interface{}, error) {
				return map[string]interface{}{"token": "tok"}, nil
			},
		}

		svc := NewConnectionService(repo, gw)
		_, err := svc.CreateConnection(context.Background(), viewer, "sales1")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("blank name is a validation error", func(t *testing.T) {
		svc := NewConnectionService(&mockConnectionRepository{}, &mockGateway{})
		_, err := svc.CreateConnection(context.Background(), viewer, "   ")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestDeleteConnection(t *testing.T) {
	initTestLogger(t)

	t.Run("remote delete runs before local delete", func(t *testing.T) {
		var calls []string
		conn := &models.Connection{InstanceName: "sales1", UserID: "user-7", Token: "tok-123"}
		conn.ID = 42

		repo := &mockConnectionRepository{
			getByInstanceNameFunc: func(ctx context.Context, name string) (*models.Connection, error) {
				return conn, nil
			},
			deleteFunc: func(ctx context.Context, id uint) error {
				assert.Equal(t, uint(42), id)
				calls = append(calls, "local")
				return nil
			},
		}
		gw := &mockGateway{
			deleteInstanceFunc: func(ctx context.Context, token string) error {
				assert.Equal(t, "tok-123", token)
				calls = append(calls, "remote")
				return nil
			},
		}

		svc := NewConnectionService(repo, gw)
		require.NoError(t, svc.DeleteConnection(context.Background(), "sales1"))
		assert.Equal(t, []string{"remote", "local"}, calls)
	})

	t.Run("missing token skips remote delete", func(t *testing.T) {
		conn := &models.Connection{InstanceName: "sales1", UserID: "user-7"}
		conn.ID = 42

		remoteCalled := false
		localDeleted := false
		repo := &mockConnectionRepository{
			getByInstanceNameFunc: func(ctx context.Context, name string) (*models.Connection, error) {
				return conn, nil
			},
			deleteFunc: func(ctx context.Context, id uint) error {
				localDeleted = true
				return nil
			},
		}
		gw := &mockGateway{
			deleteInstanceFunc: func(ctx context.Context, token string) error {
				remoteCalled = true
				return nil
			},
		}

		svc := NewConnectionService(repo, gw)
		require.NoError(t, svc.DeleteConnection(context.Background(), "sales1"))
		assert.False(t, remoteCalled)
		assert.True(t, localDeleted, "local row must be removed even without a token")
	})

	t.Run("unknown instance is not found", func(t *testing.T) {
		svc := NewConnectionService(&mockConnectionRepository{}, &mockGateway{})
		err := svc.DeleteConnection(context.Background(), "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("remote failure keeps the local row", func(t *testing.T) {
		conn := &models.Connection{InstanceName: "sales1", Token: "tok-123"}
		conn.ID = 42

		localCalled := false
		repo := &mockConnectionRepository{
			getByInstanceNameFunc: func(ctx context.Context, name string) (*models.Connection, error) {
				return conn, nil
			},
			deleteFunc: func(ctx context.Context, id uint) error {
				localCalled = true
				return nil
			},
		}
		gw := &mockGateway{
			deleteInstanceFunc: func(ctx context.Context, token string) error {
				return assert.AnError
			},
		}

		svc := NewConnectionService(repo, gw)
		require.Error(t, svc.DeleteConnection(context.Background(), "sales1"))
		assert.False(t, localCalled)
	})
}

func TestSyncConnections(t *testing.T) {
	initTestLogger(t)
	viewer := repository.Viewer{UserID: "user-7"}

	t.Run("registers only unknown instances", func(t *testing.T) {
		var inserted []models.Connection
		repo := &mockConnectionRepository{
			listNamesFunc: func(ctx context.Context) ([]string, error) {
				return []string{"known"}, nil
			},
			createBatchFunc: func(ctx context.Context, conns []models.Connection) error {
				inserted = conns
				return nil
			},
		}

		svc := NewConnectionService(repo, &mockGateway{})
		count, err := svc.SyncConnections(context.Background(), viewer, []SyncInstance{
			{InstanceName: "known", Token: "t1"},
			{InstanceName: "fresh", Token: "t2"},
			{InstanceName: "fresh", Token: "t2"}, // duplicate in the same request
		})
		require.NoError(t, err)

		assert.Equal(t, 1, count)
		require.Len(t, inserted, 1)
		assert.Equal(t, "fresh", inserted[0].InstanceName)
		assert.Equal(t, "user-7", inserted[0].UserID)
		assert.Equal(t, "t2", inserted[0].Token)
	})

	t.Run("fully registered input is a no-op", func(t *testing.T) {
		repo := &mockConnectionRepository{
			listNamesFunc: func(ctx context.Context) ([]string, error) {
				return []string{"a", "b"}, nil
			},
		}

		svc := NewConnectionService(repo, &mockGateway{})
		count, err := svc.SyncConnections(context.Background(), viewer, []SyncInstance{
			{InstanceName: "a"}, {InstanceName: "b"},
		})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestAssignTeam(t *testing.T) {
	initTestLogger(t)
	teamID := uint(3)

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc := NewConnectionService(&mockConnectionRepository{}, &mockGateway{})
		err := svc.AssignTeam(context.Background(), repository.Viewer{UserID: "user-7"}, "sales1", &teamID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("zero matched rows is not found", func(t *testing.T) {
		repo := &mockConnectionRepository{
			updateTeamFunc: func(ctx context.Context, name string, teamID *uint) (int64, error) {
				return 0, nil
			},
		}
		svc := NewConnectionService(repo, &mockGateway{})
		err := svc.AssignTeam(context.Background(), repository.Viewer{UserID: "admin-1", IsAdmin: true}, "ghost", &teamID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nil team id clears assignment", func(t *testing.T) {
		var gotTeamID *uint = &teamID
		repo := &mockConnectionRepository{
			updateTeamFunc: func(ctx context.Context, name string, teamID *uint) (int64, error) {
				gotTeamID = teamID
				return 1, nil
			},
		}
		svc := NewConnectionService(repo, &mockGateway{})
		err := svc.AssignTeam(context.Background(), repository.Viewer{UserID: "admin-1", IsAdmin: true}, "sales1", nil)
		require.NoError(t, err)
		assert.Nil(t, gotTeamID)
	})
}

func TestPairingOperations(t *testing.T) {
	initTestLogger(t)

	registered := func() *mockConnectionRepository {
		conn := &models.Connection{InstanceName: "sales1", Token: "tok-123"}
		conn.ID = 42
		return &mockConnectionRepository{
			getByInstanceNameFunc: func(ctx context.Context, name string) (*models.Connection, error) {
				return conn, nil
			},
		}
	}

	t.Run("connect resolves the stored token", func(t *testing.T) {
		gw := &mockGateway{
			connectInstanceFunc: func(ctx context.Context, token, phone string) (interface{}, error) {
				assert.Equal(t, "tok-123", token)
				assert.Equal(t, "+5511999999999", phone)
				return map[string]interface{}{"paircode": "1234-5678"}, nil
			},
		}

		svc := NewConnectionService(registered(), gw)
		result, err := svc.Connect(context.Background(), "sales1", "+5511999999999")
		require.NoError(t, err)
		assert.NotNil(t, result)
	})

	t.Run("missing token is a conflict", func(t *testing.T) {
		svc := NewConnectionService(&mockConnectionRepository{}, &mockGateway{})
		_, err := svc.Connect(context.Background(), "ghost", "")
		assert.ErrorIs(t, err, ErrTokenMissing)
	})

	t.Run("nil status passes through", func(t *testing.T) {
		svc := NewConnectionService(registered(), &mockGateway{})
		status, err := svc.Status(context.Background(), "sales1")
		require.NoError(t, err)
		assert.Nil(t, status)
	})

	t.Run("webhook lookup normalizes the payload", func(t *testing.T) {
		gw := &mockGateway{
			findWebhookFunc: func(ctx context.Context, token string) interface{} {
				return []interface{}{map[string]interface{}{"url": "https://hooks"}}
			},
		}

		svc := NewConnectionService(registered(), gw)
		cfg, err := svc.GetWebhook(context.Background(), "sales1")
		require.NoError(t, err)
		assert.Equal(t, "https://hooks", cfg.URL)
		assert.True(t, cfg.Enabled)
	})
}
