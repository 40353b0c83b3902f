package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/portfolio/internal/flagx"
)

// parseFlags overlays Config with short command-line flags:
//
//	-a string   HTTP bind address
//	-n string   gRPC health bind address
//	-d string   PostgreSQL DSN
//	-s string   JWT secret key
//	-t int      admin token validity, minutes
//	-w string   bcrypt hash of the admin password
//	-l string   log level
//	-u string   S3 user
//	-p string   S3 password
//	-b string   S3 resume bucket
//	-f string   S3 certificate bucket
//	-g string   S3 region
//	-e string   S3 base endpoint
//	-o string   public base URL for stored objects
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-n", "-d", "-s", "-t", "-w", "-l", "-u", "-p", "-b", "-f", "-g", "-e", "-o",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve the HTTP API")
	fs.StringVar(&config.EndpointAddrGRPC, "n", config.EndpointAddrGRPC, "address and port to serve gRPC health")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "admin token validity (in minutes)")
	fs.StringVar(&config.AdminPasswordHash, "w", config.AdminPasswordHash, "bcrypt hash of the admin password")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 password")
	fs.StringVar(&config.S3ResumeBucket, "b", config.S3ResumeBucket, "S3 resume bucket")
	fs.StringVar(&config.S3CertificateBucket, "f", config.S3CertificateBucket, "S3 certificate bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "o", config.S3PublicBaseURL, "public base URL for stored objects")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
}
