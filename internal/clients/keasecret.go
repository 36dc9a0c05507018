package clients

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vitistack/kea-hostimport/pkg/clients/keaclient"
	"github.com/vitistack/kea-hostimport/pkg/interfaces/keainterface"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

var serviceAccountNamespaceFile = "/var/run/secrets/kubernetes.io/serviceaccount/namespace"

// secretNamespace returns ns, or the pod namespace when running in a cluster.
func secretNamespace(ns string) string {
	if ns != "" {
		return ns
	}
	if b, err := os.ReadFile(serviceAccountNamespaceFile); err == nil {
		return strings.TrimSpace(string(b))
	}
	return ""
}

// BuildKeaClientFromSecret reads the TLS secret holding the control agent's
// client certificate and returns a Kea client using it. A nil clientset or an
// empty name yields no client and no error so the caller can fall back.
func BuildKeaClientFromSecret(ctx context.Context, kube kubernetes.Interface, namespace, name string, baseOpts ...keaclient.KeaOption) (keainterface.KeaClient, error) {
	if kube == nil || name == "" {
		return nil, nil
	}
	namespace = secretNamespace(namespace)
	sec, err := kube.CoreV1().Secrets(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("get kea tls secret %s/%s: %w", namespace, name, err)
	}
	opts := append(append([]keaclient.KeaOption{}, baseOpts...), keaclient.OptionTLSFromSecret(sec))
	return keaclient.NewKeaClientWithOptions(opts...), nil
}
