package mongoclient

import (
	"context"
	"crypto/tls"
	"runtime"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/glazehouse/potteryapi/base/log"
)

const socketTimeout = 60 * time.Second

// Client carries the database name together with the driver client so
// callers never have to thread it separately
type Client struct {
	DbName string
	*mongo.Client
}

// MustConnectMongoClient panics when the connection cannot be established
func MustConnectMongoClient(uri, authDBName, dbName string, ssl, setSafe bool, poolSizeMultiplier float64) *Client {
	cli, err := ConnectMongoClient(uri, authDBName, dbName, ssl, setSafe, poolSizeMultiplier)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": uri, "err": err}).Panic("fail to dial mongo")
	}
	return cli
}

// ConnectMongoClient dials mongo, sizes the pool by CPU count, and
// probes the target database before returning
func ConnectMongoClient(uri, authDBName, dbName string, ssl, setSafe bool, poolSizeMultiplier float64) (*Client, error) {
	ctx := context.Background()

	connSetting, err := connstring.Parse(uri)
	if err != nil {
		log.Log().WithFields(log.Fields{"mongoURI": uri, "err": err}).Error("fail to parse connstring")
		return nil, err
	}

	opts := options.Client().ApplyURI(uri).SetSocketTimeout(socketTimeout)

	// fall back to authDBName when the connstring carries credentials
	// without an auth source
	if connSetting.Username != "" && connSetting.AuthSource == "" {
		opts.SetAuth(options.Credential{
			AuthMechanism:           connSetting.AuthMechanism,
			AuthMechanismProperties: connSetting.AuthMechanismProperties,
			Username:                connSetting.Username,
			Password:                connSetting.Password,
			PasswordSet:             connSetting.PasswordSet,
			AuthSource:              authDBName,
		})
	}

	// each host keeps its own pool, so split the budget across hosts
	poolSize := int(float64(runtime.NumCPU()) * poolSizeMultiplier)
	poolSize = (poolSize + len(connSetting.Hosts) - 1) / len(connSetting.Hosts)
	opts.SetMinPoolSize(uint64(poolSize / 4))
	opts.SetMaxPoolSize(uint64(poolSize))
	log.Log().WithField("poolSize", poolSize).Info("mongo driver pool size")

	if ssl {
		opts.SetTLSConfig(&tls.Config{})
	}
	if setSafe {
		// writes wait for a replica-set majority; bid pointer updates
		// must not be acknowledged by a lone primary
		opts.SetWriteConcern(writeconcern.New(writeconcern.WMajority()))
	}
	opts.SetRetryWrites(true)

	fields := log.Fields{"mongoHosts": connSetting.Hosts, "dbName": dbName}

	client, err := mongo.NewClient(opts)
	if err != nil {
		log.Log().WithFields(fields).WithField("err", err).Error("fail to create mongo client")
		return nil, err
	}
	if err := client.Connect(ctx); err != nil {
		log.Log().WithFields(fields).WithField("err", err).Error("fail to connect mongo db")
		return nil, err
	}

	// verify the database is reachable and the name is right
	if _, err := client.Database(dbName).ListCollectionNames(ctx, bson.D{}); err != nil {
		log.Log().WithFields(fields).WithField("err", err).Error("fail to probe mongo db")
		return nil, err
	}

	log.Log().WithFields(fields).Info("mongo connected")
	return &Client{
		Client: client,
		DbName: dbName,
	}, nil
}
