package fvec_test

import (
	"fmt"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/ndarray"
	"github.com/hupe1980/fvec/resource"
)

func ExampleAlphaNorm() {
	arr, _ := ndarray.New([]float32{1, 2, 3, 4})

	norm, err := fvec.AlphaNorm(arr, 2)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.4f\n", norm)
	// Output: 2.7386
}

func ExampleAdapt() {
	arr, _ := ndarray.New([]float64{0.5, 1.5, 2.5, 3.5, 4.5, 5.5}, 2, 3)
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})

	v, err := fvec.Adapt(arr, fvec.WithResources(rc))
	if err != nil {
		panic(err)
	}
	fmt.Println(v, rc.MemoryUsage())

	_ = v.Release()
	fmt.Println(rc.MemoryUsage())
	// Output:
	// fvec.Vector(channels=2, length=3, borrowing) 24
	// 0
}

func ExampleAllocate() {
	v, err := fvec.Allocate(4, 2)
	if err != nil {
		panic(err)
	}
	defer v.Release()

	_ = v.Set(1, 0, 2)
	ch, _ := v.Channel(1)
	fmt.Println(ch)
	// Output: [2 0 0 0]
}
