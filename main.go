package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ichernetskii/neuro/neuralnet"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "train":
		cmdTrain(os.Args[2:])
	case "recognize":
		cmdRecognize(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: neuro train|recognize [flags]")
	fmt.Fprintln(os.Stderr, "  train     -data <dir> -model <file> [-epochs N] [-rate F] [-hidden N]")
	fmt.Fprintln(os.Stderr, "  recognize -model <file> -image <file.png>")
	os.Exit(2)
}

func cmdTrain(args []string) {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	dataDir := fs.String("data", "data", "directory with one subfolder per digit (0-9) of PNG images")
	modelPath := fs.String("model", "model.json", "where to write the trained model")
	epochs := fs.Int("epochs", 10, "training epochs")
	rate := fs.Float64("rate", 0.1, "learning rate")
	hidden := fs.Int("hidden", 64, "hidden layer size")
	fs.Parse(args)

	samples, err := loadDataset(*dataDir)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(fmt.Sprintf("Loaded %d images from %s", len(samples), *dataDir))

	inputSize := len(samples[0].Pixels)
	nn, err := neuralnet.New([]neuralnet.LayerSpec{
		{Neurons: inputSize, Activation: "ReLU"},
		{Neurons: *hidden, Activation: "ReLU"},
		{Neurons: NumClasses, Activation: "Softmax"},
	})
	if err != nil {
		log.Fatal(err)
	}

	labels := make([]int, len(samples))
	for i, s := range samples {
		labels[i] = s.Label
	}
	oneHots := oneHotEncode(labels, NumClasses).Data().([]float64)

	for e := 0; e < *epochs; e++ {
		var loss float64
		correct := 0
		for i, s := range samples {
			expected := oneHots[i*NumClasses : (i+1)*NumClasses]
			if err := nn.SetInput(s.Pixels); err != nil {
				log.Fatal(err)
			}
			nn.Forward()
			l, err := nn.CalculateLoss(expected)
			if err != nil {
				log.Fatal(err)
			}
			loss += l
			if argmax(nn.Output()) == s.Label {
				correct++
			}
			if err := nn.Backward(expected, *rate); err != nil {
				log.Fatal(err)
			}
		}
		fmt.Println(fmt.Sprintf("Epoch %d: loss=%.4f accuracy=%.2f%%",
			e, loss/float64(len(samples)), 100*float64(correct)/float64(len(samples))))
	}

	file, err := os.Create(*modelPath)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()
	if err := nn.Save(file, neuralnet.DefaultPrecision); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Model saved to", *modelPath)
}

func cmdRecognize(args []string) {
	fs := flag.NewFlagSet("recognize", flag.ExitOnError)
	modelPath := fs.String("model", "model.json", "trained model file")
	imagePath := fs.String("image", "", "PNG image to recognize")
	fs.Parse(args)
	if *imagePath == "" {
		fs.Usage()
		os.Exit(2)
	}

	file, err := os.Open(*modelPath)
	if err != nil {
		log.Fatal(err)
	}
	nn, err := neuralnet.Load(file, neuralnet.DefaultPrecision)
	file.Close()
	if err != nil {
		log.Fatal(err)
	}

	img, err := loadImage(*imagePath)
	if err != nil {
		log.Fatal(err)
	}
	if err := nn.SetInput(img.Data().([]float64)); err != nil {
		log.Fatal(fmt.Errorf("image does not match the model input size: %w", err))
	}

	out := nn.Forward().Output()
	digit := argmax(out)
	fmt.Println(fmt.Sprintf("Recognized digit: %d", digit))
	for i, confidence := range out {
		fmt.Println(fmt.Sprintf("  %d: %.2f%%", i, confidence*100))
	}
}

func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
